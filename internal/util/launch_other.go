//go:build !windows

package util

// StartedFromShell is always true off Windows.
func StartedFromShell() bool { return true }
