package log

import (
	"time"

	"github.com/go-stack/stack"
)

// Dynamic values are resolved at the moment a line is logged
type Dynamic interface {
	LogValue() interface{}
}

// copyIfDynamic resolves Dynamic values, copying keyvals only if one is found
func copyIfDynamic(keyvals []interface{}) []interface{} {
	var newArray []interface{}
	for i := range keyvals {
		if v, ok := keyvals[i].(Dynamic); ok {
			if newArray == nil {
				newArray = make([]interface{}, len(keyvals))
				copy(newArray, keyvals[0:i])
			}
			newArray[i] = v.LogValue()
			continue
		}
		if newArray != nil {
			newArray[i] = keyvals[i]
		}
	}
	if newArray == nil {
		return keyvals
	}
	return newArray
}

// Caller logs the file:line that is Depth frames up the stack
type Caller struct {
	Depth int
}

// LogValue returns the stack.Call at Depth
func (c *Caller) LogValue() interface{} {
	return stack.Caller(c.Depth)
}

// TimeDynamic logs the current time
type TimeDynamic struct {
	Layout   string
	Now      func() time.Time
	UTC      bool
	AsString bool
}

var _ Dynamic = &TimeDynamic{}

// LogValue returns now, formatted with Layout (default RFC3339) when AsString is set
func (t *TimeDynamic) LogValue() interface{} {
	var now time.Time
	if t.Now == nil {
		now = time.Now()
	} else {
		now = t.Now()
	}
	if t.UTC {
		now = now.UTC()
	}
	if !t.AsString {
		return now
	}
	if t.Layout == "" {
		return now.Format(time.RFC3339)
	}
	return now.Format(t.Layout)
}

var (
	// DefaultTimestampUTC is the UTC time as an RFC3339 string
	DefaultTimestampUTC = &TimeDynamic{UTC: true, AsString: true}
	// DefaultCaller is the line that called Context.Log
	DefaultCaller = &Caller{Depth: 3}
)
