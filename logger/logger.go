// Package logger provides a configurable logger across huff components
//
// The root logger defined by default uses github.com/rs/zerolog with a console writer
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// SetOutput changes the output of the global logger
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// SetLevel changes the minimum level of the global logger
func SetLevel(l zerolog.Level) {
	logger = logger.Level(l)
}

// Set allows a huff user to override the global logger
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the global logger
func Logger() *zerolog.Logger {
	return &logger
}
