// Package logging provides the levelled loggers used throughout quill.
//
// All output goes to stderr. The default level is LevelWarning.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var (
	debug   *log.Logger
	info    *log.Logger
	warning *log.Logger
	error   *log.Logger
	out     io.Writer = os.Stderr
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	debug = log.New(io.Discard, "D ", flags)
	info = log.New(io.Discard, "I ", flags)
	warning = log.New(io.Discard, "W ", flags)
	error = log.New(io.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

// ParseLevel maps a level name to a Level.
// Unknown names map to LevelNone.
func ParseLevel(name string) Level {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelNone
	}
}

// SetOutput redirects all enabled loggers to w.
// The current level is kept.
func SetOutput(w io.Writer, l Level) {
	out = w
	SetLevel(l)
}

func SetLevel(l Level) {
	loggers := []*log.Logger{debug, info, warning, error}
	for i, logger := range loggers {
		if Level(i) >= l {
			logger.SetOutput(out)
		} else {
			logger.SetOutput(io.Discard)
		}
	}
}

func Debug(msg string, v ...interface{}) {
	debug.Printf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	info.Printf(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	warning.Printf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	error.Printf(msg, v...)
}
