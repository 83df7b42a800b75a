package io

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsOutputTerminal reports whether w is an interactive terminal. Commands
// use this to fall back from table to a structured format when stdout is
// piped or redirected, the way a table-output command should.
func IsOutputTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
