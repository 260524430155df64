package logging

import (
	"os"

	"github.com/rs/zerolog"
)

type Fields map[string]interface{}

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func output(ev *zerolog.Event, msg string, fields Fields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(logger.Info(), msg, fields)
}

// Warn logs a warning with optional fields.
func Warn(msg string, fields Fields) {
	output(logger.Warn(), msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	ev := logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	output(ev, msg, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	ev := logger.Fatal()
	if err != nil {
		ev = ev.Err(err)
	}
	output(ev, msg, fields)
}
