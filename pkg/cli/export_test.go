package cli

import "io"

// SetOutput replaces the command output writer and returns a restore function
func SetOutput(w io.Writer) func() {
	prev := output
	output = w
	return func() { output = prev }
}
