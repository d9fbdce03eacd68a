// Package logging builds the structured loggers used across smartshop.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// LogFileName is where the TUI logs, inside the store dir.
const LogFileName = "smartshop.log"

// New returns a logger writing to w at the given level ("debug", "info", "warn", "error").
// An empty level means "warn".
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "smartshop",
	})
	l.SetLevel(lvl)
	if os.Getenv("NO_COLOR") != "" {
		l.SetStyles(log.DefaultStyles())
	}
	return l, nil
}

// NewFile opens (appending) dir/smartshop.log for use while the terminal is in alt-screen mode.
// The returned closer must be called on exit.
func NewFile(dir, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	l.SetReportTimestamp(true)
	return l, f, nil
}

func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", s)
	}
	return lvl, nil
}

// Discard is a logger that drops everything; used when callers pass nil.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
