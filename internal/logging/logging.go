package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr at the given level.
// Unknown levels fall back to info.
func New(level string, noColor bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, noColor)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(w io.Writer, level string, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: "2006-01-02 15:04:05",
	}).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel accepts zerolog names as well as WARNING
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
