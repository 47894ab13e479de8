package dataunit

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Unit is the short label of a binary data unit
type Unit string

// Labels returned with each projection
const (
	Byte     Unit = "B"
	Kilobyte Unit = "KB"
	Megabyte Unit = "MB"
	Gigabyte Unit = "GB"
	Terabyte Unit = "TB"
)

var unitAliases = map[string]Unit{
	"":    Byte,
	"B":   Byte,
	"K":   Kilobyte,
	"KB":  Kilobyte,
	"KIB": Kilobyte,
	"M":   Megabyte,
	"MB":  Megabyte,
	"MIB": Megabyte,
	"G":   Gigabyte,
	"GB":  Gigabyte,
	"GIB": Gigabyte,
	"T":   Terabyte,
	"TB":  Terabyte,
	"TIB": Terabyte,
}

// Divisor returns the number of bytes in one u
func (u Unit) Divisor() (uint64, error) {
	switch u {
	case Byte:
		return 1, nil
	case Kilobyte:
		return KB, nil
	case Megabyte:
		return MB, nil
	case Gigabyte:
		return GB, nil
	case Terabyte:
		return TB, nil
	}
	return 0, errors.NotValidf("unit %q", string(u))
}

// ParseUnit maps a unit label to its Unit.  Matching ignores case and accepts single letter
// (K) and IEC (KiB) spellings; every spelling is a power of 1024.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if u, exists := unitAliases[strings.ToUpper(s)]; exists && s != "" {
		return u, nil
	}
	return "", errors.NotValidf("unit %q", s)
}

// Parse reads a size such as "8GB", "1.5 TB" or "512" (bytes) into a ByteConverter.  Whole
// numbers are multiplied exactly; fractional ones go through float64 and truncate toward zero.
// Negative, NaN and out of range sizes are rejected with ErrNegative, ErrNotANumber and
// ErrOverflow as the cause.
func Parse(s string) (ByteConverter, error) {
	num, label := splitSize(strings.TrimSpace(s))
	if num == "" {
		return ByteConverter{}, errors.NotValidf("size %q", s)
	}
	unit, exists := unitAliases[strings.ToUpper(label)]
	if !exists {
		return ByteConverter{}, errors.NotValidf("unit %q in size %q", label, s)
	}
	scale, err := unit.Divisor()
	if err != nil {
		return ByteConverter{}, errors.Trace(err)
	}
	if whole, err := strconv.ParseUint(num, 10, 64); err == nil {
		hi, lo := bits.Mul64(whole, scale)
		if hi != 0 {
			return ByteConverter{}, errors.Annotatef(ErrOverflow, "cannot parse size %q", s)
		}
		return New(lo), nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		// out of range floats still come back as +-Inf or 0 and are judged below
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return ByteConverter{}, errors.NewNotValid(err, "size "+strconv.Quote(s))
		}
	}
	b, err := floatToBytes(f, scale)
	if err != nil {
		return ByteConverter{}, errors.Annotatef(err, "cannot parse size %q", s)
	}
	return New(b), nil
}

// splitSize splits s after its last digit or decimal point
func splitSize(s string) (num string, label string) {
	i := strings.LastIndexAny(s, "0123456789.")
	if i < 0 {
		return "", s
	}
	return s[:i+1], strings.TrimSpace(s[i+1:])
}
