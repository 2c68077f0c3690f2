package main

import (
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/Alia5/padbind/internal/cmd"
	"github.com/Alia5/padbind/internal/config"
	"github.com/Alia5/padbind/internal/configpaths"
	"github.com/Alia5/padbind/internal/log"
)

var version = "dev"

func main() {
	cmd.Version = version

	paths := configpaths.ConfigCandidatePaths(configpaths.FindUserConfig(os.Args[1:]))

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("padbind"),
		kong.Description("Gamepad input binding server"),
		kong.UsageOnError(),
		// Flags and env override config values.
		kong.Configuration(kong.JSON, paths.JSON...),
		kong.Configuration(kongyaml.Loader, paths.YAML...),
		kong.Configuration(kongtoml.Loader, paths.TOML...),
	)

	logger, rawLogger, closeFiles, err := log.Setup(cli.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
