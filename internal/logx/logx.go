// Package logx holds the best-effort stderr logging shared by the CLI, the
// TUI and the stores.
package logx

import (
	"fmt"
	"io"
	"os"
)

// Output receives log lines. Tests swap it for a buffer.
var Output io.Writer = os.Stderr

// Errf writes a formatted line to Output.
func Errf(format string, args ...any) {
	if _, err := fmt.Fprintf(Output, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Errln writes its arguments to Output followed by a newline.
func Errln(args ...any) {
	if _, err := fmt.Fprintln(Output, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
