// Package config holds the command line surface of padbind.
package config

import (
	"github.com/Alia5/padbind/internal/cmd"
	"github.com/Alia5/padbind/internal/log"
)

// CLI is parsed by kong. Values come from flags, then env, then the first
// config file found.
type CLI struct {
	Log    log.Config `embed:"" prefix:"log."`
	Config string     `help:"Path to a json, yaml or toml config file" env:"PADBIND_CONFIG" type:"path"`

	Serve     cmd.Serve         `cmd:"" help:"Run the input engine and the API server"`
	Feed      cmd.Feed          `cmd:"" help:"Drive a pad port of a running server from the keyboard"`
	Catalog   cmd.Catalog       `cmd:"" help:"Print the binding catalog of a platform"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
