package log

import (
	"io"
	"io/ioutil"

	"github.com/go-logfmt/logfmt"
	"github.com/juju/errors"
)

// LogfmtLogger writes one logfmt encoded line per Log call
type LogfmtLogger struct {
	Out             io.Writer
	MissingValueKey Key
}

// NewLogfmtLogger returns a logger that encodes keyvals to w in logfmt format.  w must be safe for
// concurrent use if the returned Logger is.  Encoding or write failures go to ErrHandler.
func NewLogfmtLogger(w io.Writer, ErrHandler ErrorHandler) Logger {
	if w == ioutil.Discard {
		return Discard
	}
	return &ErrorLogLogger{
		RootLogger: &LogfmtLogger{
			Out:             w,
			MissingValueKey: Msg,
		},
		ErrHandler: ErrHandler,
	}
}

// Log a single line.  A lone value is logged under MissingValueKey.
func (l *LogfmtLogger) Log(keyvals ...interface{}) error {
	if len(keyvals) == 1 {
		keyvals = []interface{}{l.MissingValueKey, keyvals[0]}
	}
	// Only one Write per line so concurrent writers never interleave inside a line
	b, err := logfmt.MarshalKeyvals(keyvals...)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := l.Out.Write(b); err != nil {
		return errors.Annotate(err, "cannot write out logfmt for log")
	}
	return nil
}
