package main

import (
	"os"

	"github.com/mattn/go-isatty"
)

func isTerminalStdout() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
