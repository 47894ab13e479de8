// Package dataunit converts byte counts to and from binary (1024 based) data units.
package dataunit

import (
	"math"

	"github.com/juju/errors"
)

// Binary data units. Every unit is 1024 of the one below it.
const (
	KB uint64 = 1024
	MB        = 1024 * KB
	GB        = 1024 * MB
	TB        = 1024 * GB
)

// twoTo64 is the first float64 that no longer fits in a uint64
const twoTo64 = 1 << 64

var (
	// ErrNegative is returned when a negative size is converted into bytes
	ErrNegative = errors.New("size is negative")
	// ErrNotANumber is returned when a NaN size is converted into bytes
	ErrNotANumber = errors.New("size is not a number")
	// ErrOverflow is returned when a size does not fit in a uint64 byte count
	ErrOverflow = errors.New("size overflows a uint64 byte count")
)

// Value is a size projected into a unit, tagged with that unit's label
type Value struct {
	Value float64
	Unit  Unit
}

// ByteConverter holds an immutable count of bytes and projects it into binary units.
// The zero value holds zero bytes.
type ByteConverter struct {
	bytes uint64
}

// New returns a ByteConverter holding exactly bytes
func New(bytes uint64) ByteConverter {
	return ByteConverter{bytes: bytes}
}

// FromTerabytes returns a ByteConverter holding tb terabytes, truncated toward zero to a whole
// number of bytes.
//
// Inputs outside of a uint64 byte count do not wrap: a product at or above 2^64 (including +Inf)
// saturates at math.MaxUint64, and negative or NaN input clamps to zero.  Use FromTerabytesChecked
// to have those inputs rejected instead.
func FromTerabytes(tb float64) ByteConverter {
	b, err := floatToBytes(tb, TB)
	if err == nil {
		return New(b)
	}
	if errors.Cause(err) == ErrOverflow {
		return New(math.MaxUint64)
	}
	return New(0)
}

// FromTerabytesChecked is FromTerabytes that returns ErrNegative, ErrNotANumber or ErrOverflow
// (see errors.Cause) rather than clamping out of range input.
func FromTerabytesChecked(tb float64) (ByteConverter, error) {
	b, err := floatToBytes(tb, TB)
	if err != nil {
		return ByteConverter{}, errors.Annotatef(err, "cannot convert %v TB to bytes", tb)
	}
	return New(b), nil
}

func floatToBytes(f float64, scale uint64) (uint64, error) {
	switch {
	case math.IsNaN(f):
		return 0, ErrNotANumber
	case f < 0:
		return 0, ErrNegative
	}
	p := f * float64(scale)
	if p >= twoTo64 {
		return 0, ErrOverflow
	}
	return uint64(p), nil
}

func (b ByteConverter) convert(scale uint64) float64 {
	return float64(b.bytes) / float64(scale)
}

// Bytes returns the size as a uint64 of bytes
func (b ByteConverter) Bytes() uint64 {
	return b.bytes
}

// Kilobytes returns the size as a float64 of kilobytes
func (b ByteConverter) Kilobytes() Value {
	return Value{Value: b.convert(KB), Unit: Kilobyte}
}

// Megabytes returns the size as a float64 of megabytes
func (b ByteConverter) Megabytes() Value {
	return Value{Value: b.convert(MB), Unit: Megabyte}
}

// Gigabytes returns the size as a float64 of gigabytes
func (b ByteConverter) Gigabytes() Value {
	return Value{Value: b.convert(GB), Unit: Gigabyte}
}

// Terabytes returns the size as a float64 of terabytes
func (b ByteConverter) Terabytes() Value {
	return Value{Value: b.convert(TB), Unit: Terabyte}
}

// In returns the size projected into u.  Byte is allowed and yields the exact count as a float64,
// which loses precision past 2^53.
func (b ByteConverter) In(u Unit) (Value, error) {
	scale, err := u.Divisor()
	if err != nil {
		return Value{}, err
	}
	return Value{Value: b.convert(scale), Unit: u}, nil
}
