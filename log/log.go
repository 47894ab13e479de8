// Package log is a small key/value logger in the style of go-kit.  Loggers are composed by
// wrapping: a Context carries key/values, a Gate switches output off and the logfmt logger writes
// lines.
package log

import (
	"errors"
)

// Logger is the minimal interface every log destination implements
type Logger interface {
	Log(keyvals ...interface{})
}

// Disablable loggers can report that logging to them is a no-op
type Disablable interface {
	Disabled() bool
}

// ErrorHandler returns the logger to use when logging itself fails
type ErrorHandler interface {
	ErrorLogger(error) Logger
}

// ErrorHandlingLogger is a Logger that can also handle its own errors
type ErrorHandlingLogger interface {
	Logger
	ErrorHandler
}

// ErrorHandlingDisablableLogger is everything a root logger may be
type ErrorHandlingDisablableLogger interface {
	Logger
	ErrorHandler
	Disablable
}

// ErrorHandlerFunc turns a func into an ErrorHandler
type ErrorHandlerFunc func(error) Logger

// ErrorLogger calls f
func (f ErrorHandlerFunc) ErrorLogger(e error) Logger {
	return f(e)
}

// ErrMissingValue fills the value slot of a key logged without one
var ErrMissingValue = errors.New("(MISSING)")

// IsDisabled returns true if l is Disablable and currently disabled
func IsDisabled(l Logger) bool {
	if disable, ok := l.(Disablable); ok && disable.Disabled() {
		return true
	}
	return false
}

// IfErr logs err to l, if err is not nil
func IfErr(l Logger, err error) {
	if err != nil {
		l.Log(Err, err)
	}
}

// Context carries key/values that are added to every Log call
type Context struct {
	Logger  Logger
	KeyVals []interface{}
}

// NewContext wraps logger in a Context, reusing logger if it is already one
func NewContext(logger Logger) *Context {
	if c, ok := logger.(*Context); ok {
		return c
	}
	return &Context{
		Logger: logger,
	}
}

// Log keyvals after the context's own key/values.  Dynamic values are only resolved when the
// wrapped logger is enabled.
func (l *Context) Log(keyvals ...interface{}) {
	if IsDisabled(l.Logger) {
		return
	}
	l.Logger.Log(copyIfDynamic(addArrays(l.KeyVals, keyvals))...)
}

// Disabled is true if the wrapped logger is
func (l *Context) Disabled() bool {
	return IsDisabled(l.Logger)
}

// With returns a new Context that logs keyvals after the current ones
func (l *Context) With(keyvals ...interface{}) *Context {
	if len(keyvals) == 0 {
		return l
	}
	return &Context{
		Logger:  l.Logger,
		KeyVals: addArrays(l.KeyVals, keyvals),
	}
}

// WithPrefix returns a new Context that logs keyvals before the current ones
func (l *Context) WithPrefix(keyvals ...interface{}) *Context {
	if len(keyvals) == 0 {
		return l
	}
	return &Context{
		Logger:  l.Logger,
		KeyVals: addArrays(keyvals, l.KeyVals),
	}
}

// addArrays always allocates so that contexts sharing a parent never write into each other's
// backing array.  Odd length halves get ErrMissingValue appended.
func addArrays(a, b []interface{}) []interface{} {
	if len(a) == 0 && len(b) == 0 {
		return []interface{}{}
	}
	n := len(a) + len(b) + len(a)%2 + len(b)%2
	ret := make([]interface{}, 0, n)
	ret = append(ret, a...)
	if len(a)%2 != 0 {
		ret = append(ret, ErrMissingValue)
	}
	ret = append(ret, b...)
	if len(b)%2 != 0 {
		ret = append(ret, ErrMissingValue)
	}
	return ret
}
