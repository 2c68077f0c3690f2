// Package util has small process helpers.
package util

// WithDefaultCommand returns args with cmd inserted after the program name
// when no subcommand was given. Used when padbind is started by double-click.
func WithDefaultCommand(args []string, cmd string) []string {
	if len(args) == 0 {
		return []string{cmd}
	}
	if len(args) > 1 && args[1] == cmd {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], cmd)
	return append(out, args[1:]...)
}
