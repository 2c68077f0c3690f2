package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/padbind/internal/configpaths"
	"github.com/Alia5/padbind/internal/engine"
	"github.com/Alia5/padbind/internal/log"
	"github.com/Alia5/padbind/internal/padnet"
	"github.com/Alia5/padbind/internal/profile"
	"github.com/Alia5/padbind/internal/server/api"
	"github.com/Alia5/padbind/internal/server/api/auth"
	"github.com/Alia5/padbind/internal/server/api/handler"
	"github.com/Alia5/padbind/joypad"
)

const keyFileName = "padbind.key.txt"

// Version is reported by the ping route.
var Version = "dev"

type Serve struct {
	Platform          string           `help:"Controller platform" enum:"xbox360,xbox" default:"xbox360" env:"PADBIND_PLATFORM"`
	Deadzone          int16            `help:"Stick deflection needed for a d-pad press" default:"16000" env:"PADBIND_DEADZONE"`
	Dpad              []string         `help:"Initial d-pad mode per port (none, lstick, rstick)" default:"lstick,lstick,lstick,lstick" env:"PADBIND_DPAD"`
	Profile           string           `help:"Bind profile applied at startup (json, yaml or toml)" env:"PADBIND_PROFILE"`
	KeyFile           string           `help:"API password file; generated when missing (default: <config dir>/padbind.key.txt)" env:"PADBIND_KEY_FILE"`
	ConnectionTimeout time.Duration    `help:"Time a client has to send its request" default:"30s" env:"PADBIND_CONNECTION_TIMEOUT"`
	Engine            engine.Config    `embed:"" prefix:"engine."`
	ApiServerConfig   api.ServerConfig `embed:"" prefix:"api."`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

func (s *Serve) driverConfig() (joypad.Config, error) {
	p, err := joypad.PlatformByName(s.Platform)
	if err != nil {
		return joypad.Config{}, err
	}
	if s.Deadzone < 0 {
		return joypad.Config{}, fmt.Errorf("deadzone must not be negative: %d", s.Deadzone)
	}
	cfg := joypad.Config{Platform: p, Deadzone: joypad.Deadzone(s.Deadzone)}
	if len(s.Dpad) > joypad.MaxPads {
		return joypad.Config{}, fmt.Errorf("%d d-pad modes given, at most %d ports", len(s.Dpad), joypad.MaxPads)
	}
	for port := range cfg.DpadModes {
		cfg.DpadModes[port] = joypad.DpadLeftStick
		if port < len(s.Dpad) {
			m, err := joypad.ParseDpadMode(s.Dpad[port])
			if err != nil {
				return joypad.Config{}, fmt.Errorf("port %d: %w", port, err)
			}
			cfg.DpadModes[port] = m
		}
	}
	return cfg, nil
}

func (s *Serve) loadPassword(logger *slog.Logger) (string, error) {
	keyFilePath := s.KeyFile
	if keyFilePath == "" {
		dir, err := configpaths.DefaultConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve key file path: %w", err)
		}
		keyFilePath = filepath.Join(dir, keyFileName)
	}
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read key file: %w", err)
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API password: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyFilePath), 0o700); err != nil {
		return "", fmt.Errorf("failed to create key file dir: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write API password: %w", err)
	}
	logger.Info("Generated API password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your padbind API password is:")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	return newPwd, nil
}

// StartServer runs the engine and the API until ctx is done.
func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if s.ApiServerConfig.Addr == "" {
		return errors.New("API server address must be set (default :3243)")
	}
	cfg, err := s.driverConfig()
	if err != nil {
		return err
	}

	pads := padnet.New()
	drv := joypad.NewDriver(pads, cfg, logger.With("component", "joypad"))
	if s.Profile != "" {
		p, err := profile.Load(s.Profile)
		if err != nil {
			return err
		}
		if err := p.Apply(drv.Bindings()); err != nil {
			return fmt.Errorf("apply profile: %w", err)
		}
		logger.Info("Loaded bind profile", "path", s.Profile, "pads", len(p.Pads))
	}

	password, err := s.loadPassword(logger)
	if err != nil {
		return err
	}
	s.ApiServerConfig.Password = password
	s.ApiServerConfig.ConnectionTimeout = s.ConnectionTimeout

	eng := engine.New(drv, s.Engine, logger.With("component", "engine"))
	eng.OnHotkey(func(h joypad.Hotkey) {
		logger.Info("Hotkey", "name", h.String())
	})

	apiSrv, err := api.New(s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	if err != nil {
		return err
	}
	r := apiSrv.Router()
	r.Register("ping", handler.Ping(Version))
	r.Register("catalog", handler.Catalog(eng))
	r.Register("pad/list", handler.PadList(eng, pads))
	r.Register("pad/{port}/binds", handler.PadBinds(eng))
	r.Register("pad/{port}/bind/{input}", handler.PadBind(eng))
	r.Register("pad/{port}/defaults", handler.PadDefaults(eng))
	r.Register("pad/{port}/dpad", handler.PadDpad(eng))
	r.Register("hotkeys", handler.Hotkeys(eng))
	r.RegisterStream("pad/{port}/stream", handler.PadStream(pads, rawLogger))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	logger.Info("Starting padbind", "platform", cfg.Platform.Name, "deadzone", int(cfg.Deadzone), "dpad", s.Dpad)
	return eng.Run(ctx)
}
