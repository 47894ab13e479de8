package log

import (
	kitlog "github.com/go-kit/kit/log"
)

// ErrorLogger is a go-kit style logger that reports its own failures
type ErrorLogger interface {
	Log(keyvals ...interface{}) error
}

var _ ErrorLogger = kitlog.Logger(nil)

// DefaultErrorHandler receives errors from loggers built with FromGokit
var DefaultErrorHandler ErrorHandler = Discard

// ErrorLogLogger sends failed log lines to ErrHandler
type ErrorLogLogger struct {
	RootLogger ErrorLogger
	ErrHandler ErrorHandler
}

var _ ErrorHandlingLogger = &ErrorLogLogger{}

// Log to RootLogger, and on failure log the same keyvals to the error logger
func (e *ErrorLogLogger) Log(keyvals ...interface{}) {
	if err := e.RootLogger.Log(keyvals...); err != nil && e.ErrHandler != nil {
		e.ErrorLogger(err).Log(keyvals...)
	}
}

// ErrorLogger returns the logger that handles err
func (e *ErrorLogLogger) ErrorLogger(err error) Logger {
	return e.ErrHandler.ErrorLogger(err)
}

// FromGokit wraps a go-kit logger
func FromGokit(logger kitlog.Logger) *ErrorLogLogger {
	return &ErrorLogLogger{
		RootLogger: logger,
		ErrHandler: DefaultErrorHandler,
	}
}
