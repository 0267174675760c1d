// Package logger builds the zerolog logger used across the write path.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build configures a logger target before Make assembles it.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// New starts a logger build targeting stderr at the info level.
func New() *Build {
	return &Build{writer: os.Stderr, level: zerolog.InfoLevel}
}

// ToPath directs log output to an append-only file.
func (b *Build) ToPath(path string) *Build {
	b.path = path
	return b
}

// ToWriter directs log output to an arbitrary writer.
func (b *Build) ToWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// Level sets the minimum level.
func (b *Build) Level(level zerolog.Level) *Build {
	b.level = level
	return b
}

// Make assembles the logger. When a path was given the file is opened for
// appending and wrapped in a sync writer.
func (b *Build) Make() (zerolog.Logger, error) {
	writer := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Nop(), err
		}
		writer = zerolog.SyncWriter(f)
	}
	return zerolog.New(writer).Level(b.level).With().Timestamp().Logger(), nil
}
