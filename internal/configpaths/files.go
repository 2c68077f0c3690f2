// Package configpaths locates padbind configuration files.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "padbind"

// EnvConfig names the environment variable that selects a config file.
const EnvConfig = "PADBIND_CONFIG"

// bases are the file stems probed in each directory, most specific last.
var bases = []string{"padbind", "config", "serve", "feed"}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appName), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultNamedConfigPath returns <config dir>/<baseName>.<ext> for format.
func DefaultNamedConfigPath(baseName, format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, baseName+"."+Ext(format)), nil
}

// Ext maps a format name to its file extension. Unknown formats are json.
func Ext(format string) string {
	switch format {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// EnsureDir creates the parent directory of filePath.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// Candidates holds config file paths grouped by loader.
type Candidates struct {
	JSON []string
	YAML []string
	TOML []string
}

func (c *Candidates) add(p string) {
	switch filepath.Ext(p) {
	case ".yaml", ".yml":
		c.YAML = append(c.YAML, p)
	case ".toml":
		c.TOML = append(c.TOML, p)
	default:
		c.JSON = append(c.JSON, p)
	}
}

func (c *Candidates) addDir(dir string) {
	for _, base := range bases {
		for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
			c.add(filepath.Join(dir, base+ext))
		}
	}
}

// ConfigCandidatePaths lists the files kong should try, highest priority
// first: userPath, the working directory, the user config dir and on unix
// /etc/padbind.
func ConfigCandidatePaths(userPath string) Candidates {
	var c Candidates
	if userPath != "" {
		c.add(userPath)
	}
	if wd, err := os.Getwd(); err == nil {
		c.addDir(wd)
	}
	if dir, err := DefaultConfigDir(); err == nil {
		c.addDir(dir)
	}
	if runtime.GOOS != "windows" {
		c.addDir(filepath.Join("/etc", appName))
	}
	return c
}

// FindUserConfig returns the --config flag value from args, falling back to
// $PADBIND_CONFIG.
func FindUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if len(a) > len("--config=") && a[:len("--config=")] == "--config=" {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(EnvConfig)
}
