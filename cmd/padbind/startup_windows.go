//go:build windows

package main

import (
	"os"

	"github.com/Alia5/padbind/internal/util"
)

func init() {
	if !util.StartedFromShell() {
		os.Args = util.WithDefaultCommand(os.Args, "serve")
	}
}
