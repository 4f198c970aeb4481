// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

// Logger returns the shared logger, building it on first use.
func Logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "supportmesh",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel parses a level name ("debug", "info", "warn", "error") and
// applies it to the shared logger.
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects the shared logger.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// With returns a child logger carrying the given key/value pairs.
func With(keyvals ...interface{}) *log.Logger {
	return Logger().With(keyvals...)
}

func Debugf(msg string, args ...interface{}) {
	Logger().Debugf(msg, args...)
}

func Infof(msg string, args ...interface{}) {
	Logger().Infof(msg, args...)
}

func Warnf(msg string, args ...interface{}) {
	Logger().Warnf(msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	Logger().Errorf(msg, args...)
}
