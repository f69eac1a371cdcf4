package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process wide logger used by the command line tools.
var Log *Logger

type Logger struct {
	z zerolog.Logger
}

func init() {
	Log = New(os.Stderr, "console")
}

func New(w io.Writer, format string) *Logger {
	if strings.ToLower(format) == "json" {
		return &Logger{z: zerolog.New(w).With().Timestamp().Logger()}
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return &Logger{z: zerolog.New(output).With().Timestamp().Logger()}
}

// Setup sets the global level and replaces Log with a logger in the given format.
func Setup(level, format string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	Log = New(os.Stderr, format)
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Info, Debug, Warn and Error take a message followed by key value pairs.
func (l *Logger) Info(msg string, args ...interface{})  { emit(l.z.Info(), msg, args) }
func (l *Logger) Debug(msg string, args ...interface{}) { emit(l.z.Debug(), msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { emit(l.z.Warn(), msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { emit(l.z.Error(), msg, args) }

func emit(e *zerolog.Event, msg string, args []interface{}) {
	if e == nil {
		return
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	if len(args)%2 == 1 {
		e = e.Interface("EXTRA", args[len(args)-1])
	}
	e.Msg(msg)
}
