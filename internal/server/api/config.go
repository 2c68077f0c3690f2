package api

import "time"

// ServerConfig represents the API part of the serve command.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:":3243" env:"PADBIND_API_ADDR"`
	RequireAuth       bool          `help:"Reject connections that do not authenticate" default:"true" env:"PADBIND_API_REQUIRE_AUTH"`
	Password          string        `kong:"-"`
	ConnectionTimeout time.Duration `kong:"-"`
}
