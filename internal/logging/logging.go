// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// File, when set, receives JSON lines through a rotating writer.
	File string
	// Console is where human-readable output goes; nil means stderr.
	Console io.Writer
}

// New returns a logger writing to the console and, optionally, a rotated log
// file. The returned closer flushes and closes the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = l
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, file)
		closer = file
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
