// Package logging configures apex/log for the CLI.
package logging

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
)

// New returns a logger writing human-readable lines to w. verbose lowers
// the level to debug, which also echoes every yt-dlp command line.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Handler: cli.New(w),
		Level:   level,
	}
}

// Discard returns a logger that drops everything. Used while the TUI owns
// the terminal.
func Discard() *log.Logger {
	return &log.Logger{
		Handler: discard.New(),
		Level:   log.ErrorLevel,
	}
}

// Install makes l the package-level apex logger as well.
func Install(l *log.Logger) {
	log.Log = l
}
