// Package logging provides the advisory logger used for cache resize and
// cleanup diagnostics: this library's concurrency is otherwise meant to
// be invisible to callers, but resize/cleanup events are useful to see
// when tuning a long-running process, so they go to a logger a host
// program can redirect or silence.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger is the minimal surface this package's callers need. It is
// satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Default writes to os.Stderr, prefixed so its output is easy to grep out
// of a larger log stream.
var Default Logger = log.New(os.Stderr, "pdb.values: ", log.LstdFlags)

// Discard is a Logger that drops everything, for callers that want the
// cache's diagnostics silenced entirely.
var Discard Logger = log.New(io.Discard, "", 0)
