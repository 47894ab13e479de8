package log

import (
	"sync/atomic"
)

type nop struct{}

// Discard drops everything and reports itself disabled
var Discard ErrorHandlingDisablableLogger = nop{}

func (n nop) Log(keyvals ...interface{}) {}

func (n nop) ErrorLogger(error) Logger {
	return n
}

func (n nop) Disabled() bool {
	return true
}

// Counter counts log calls
type Counter struct {
	Count int64
}

var _ ErrorHandlingLogger = &Counter{}

// Log increments Count
func (c *Counter) Log(keyvals ...interface{}) {
	atomic.AddInt64(&c.Count, 1)
}

// ErrorLogger counts errors too
func (c *Counter) ErrorLogger(error) Logger {
	return c
}

// Gate can switch logging to Logger off and on at runtime
type Gate struct {
	DisabledFlag int64
	Logger       Logger
}

// Log to Logger unless the gate is closed
func (g *Gate) Log(kvs ...interface{}) {
	if !g.Disabled() {
		g.Logger.Log(kvs...)
	}
}

// Disabled is true if the gate is closed or Logger is disabled
func (g *Gate) Disabled() bool {
	return atomic.LoadInt64(&g.DisabledFlag) == 1 || IsDisabled(g.Logger)
}

// Disable closes the gate
func (g *Gate) Disable() {
	atomic.StoreInt64(&g.DisabledFlag, 1)
}

// Enable opens the gate
func (g *Gate) Enable() {
	atomic.StoreInt64(&g.DisabledFlag, 0)
}

// MultiLogger logs to every logger it holds
type MultiLogger []Logger

var _ Logger = MultiLogger(nil)

// Log to each logger
func (c MultiLogger) Log(keyvals ...interface{}) {
	for _, l := range c {
		l.Log(keyvals...)
	}
}

// Disabled is true only if every logger is disabled
func (c MultiLogger) Disabled() bool {
	for _, l := range c {
		if !IsDisabled(l) {
			return false
		}
	}
	return true
}
