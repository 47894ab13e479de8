package log

import (
	"github.com/encoderuz/byte-calculator/dataunit"
)

// Key is a well known log key
type Key string

// Keys used across the module
const (
	Msg      Key = "msg"
	Err      Key = "err"
	Location Key = "caller"
	Time     Key = "time"
	Bytes    Key = "bytes"
	Unit     Key = "unit"
	Value    Key = "value"
	Path     Key = "path"
	Config   Key = "key"
)

func (k Key) String() string {
	return string(k)
}

// Converted returns the key/values describing a projected size
func Converted(v dataunit.Value) []interface{} {
	return []interface{}{Unit, string(v.Unit), Value, v.Value}
}

// Sized returns the key/values describing a raw byte count
func Sized(b dataunit.ByteConverter) []interface{} {
	return []interface{}{Bytes, b.Bytes()}
}
