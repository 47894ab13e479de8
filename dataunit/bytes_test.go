package dataunit

import (
	"math"
	"sync"
	"testing"

	"github.com/juju/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

func TestByteConverter_Bytes(t *testing.T) {
	tests := []struct {
		name string
		b    ByteConverter
		want uint64
	}{
		{name: "zero value", b: ByteConverter{}, want: 0},
		{name: "one byte", b: New(1), want: 1},
		{name: "max", b: New(math.MaxUint64), want: math.MaxUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Bytes(); got != tt.want {
				t.Errorf("ByteConverter.Bytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestByteConverter_Kilobytes(t *testing.T) {
	tests := []struct {
		name string
		b    ByteConverter
		want float64
	}{
		{name: "one kilobyte", b: New(1024), want: 1},
		{name: "fractional kilobytes", b: New(1536), want: 1.5},
		{name: "eight gigabytes", b: New(8589934592), want: 8388608},
		{name: "zero", b: New(0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.Kilobytes()
			if got.Value != tt.want {
				t.Errorf("ByteConverter.Kilobytes() = %v, want %v", got.Value, tt.want)
			}
			if got.Unit != "KB" {
				t.Errorf("ByteConverter.Kilobytes() unit = %v, want KB", got.Unit)
			}
		})
	}
}

func TestByteConverter_Megabytes(t *testing.T) {
	tests := []struct {
		name string
		b    ByteConverter
		want float64
	}{
		{name: "fractional megabytes", b: New(1536 * KB), want: 1.5},
		{name: "one gigabyte", b: New(1073741824), want: 1024},
		{name: "eight gigabytes", b: New(8589934592), want: 8192},
		{name: "zero", b: New(0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.Megabytes()
			if got.Value != tt.want {
				t.Errorf("ByteConverter.Megabytes() = %v, want %v", got.Value, tt.want)
			}
			if got.Unit != "MB" {
				t.Errorf("ByteConverter.Megabytes() unit = %v, want MB", got.Unit)
			}
		})
	}
}

func TestByteConverter_Gigabytes(t *testing.T) {
	tests := []struct {
		name string
		b    ByteConverter
		want float64
	}{
		{name: "fractional gigabytes", b: New(1536 * MB), want: 1.5},
		{name: "one gigabyte", b: New(1073741824), want: 1},
		{name: "eight gigabytes", b: New(8589934592), want: 8},
		{name: "zero", b: New(0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.Gigabytes()
			if got.Value != tt.want {
				t.Errorf("ByteConverter.Gigabytes() = %v, want %v", got.Value, tt.want)
			}
			if got.Unit != "GB" {
				t.Errorf("ByteConverter.Gigabytes() unit = %v, want GB", got.Unit)
			}
		})
	}
}

func TestByteConverter_Terabytes(t *testing.T) {
	tests := []struct {
		name string
		b    ByteConverter
		want float64
	}{
		{name: "fractional terabytes", b: New(1536 * GB), want: 1.5},
		{name: "one gigabyte", b: New(1073741824), want: 0.0009765625},
		{name: "eight gigabytes", b: New(8589934592), want: 0.0078125},
		{name: "zero", b: New(0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.Terabytes()
			if got.Value != tt.want {
				t.Errorf("ByteConverter.Terabytes() = %v, want %v", got.Value, tt.want)
			}
			if got.Unit != "TB" {
				t.Errorf("ByteConverter.Terabytes() unit = %v, want TB", got.Unit)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, uint64(1024), KB)
	assert.Equal(t, uint64(1048576), MB)
	assert.Equal(t, uint64(1073741824), GB)
	assert.Equal(t, uint64(1099511627776), TB)
}

func TestProjectionsMatchFloatDivision(t *testing.T) {
	for _, b := range []uint64{0, 1, 1023, 1025, 123456789, 1 << 52, 1<<53 + 1, 1<<63 + 12345, math.MaxUint64} {
		c := New(b)
		assert.Equal(t, float64(b)/1024.0, c.Kilobytes().Value, "kilobytes of %d", b)
		assert.Equal(t, float64(b)/1048576.0, c.Megabytes().Value, "megabytes of %d", b)
		assert.Equal(t, float64(b)/1073741824.0, c.Gigabytes().Value, "gigabytes of %d", b)
		assert.Equal(t, float64(b)/1099511627776.0, c.Terabytes().Value, "terabytes of %d", b)
	}
}

func TestMonotonic(t *testing.T) {
	sizes := []uint64{0, 1, 2, 1023, 1024, 1 << 30, 1<<30 + 1, 1 << 40, 1<<53 - 1}
	for i := 1; i < len(sizes); i++ {
		lo, hi := New(sizes[i-1]), New(sizes[i])
		assert.True(t, lo.Kilobytes().Value < hi.Kilobytes().Value)
		assert.True(t, lo.Megabytes().Value < hi.Megabytes().Value)
		assert.True(t, lo.Gigabytes().Value < hi.Gigabytes().Value)
		assert.True(t, lo.Terabytes().Value < hi.Terabytes().Value)
	}
}

func TestFromTerabytes(t *testing.T) {
	Convey("FromTerabytes", t, func() {
		Convey("should convert one terabyte", func() {
			So(FromTerabytes(1.0).Bytes(), ShouldEqual, uint64(1099511627776))
		})
		Convey("should truncate fractional bytes", func() {
			So(FromTerabytes(1.75/float64(TB)).Bytes(), ShouldEqual, uint64(1))
		})
		Convey("should round trip through Terabytes", func() {
			for _, tb := range []float64{0, 0.0078125, 1, 1.5, 3.14159, 1000.001, 16777215} {
				So(FromTerabytes(tb).Terabytes().Value, ShouldAlmostEqual, tb, 1e-9)
			}
		})
		Convey("should keep the largest whole terabyte count that fits", func() {
			So(FromTerabytes(16777215).Bytes(), ShouldEqual, uint64(16777215)*TB)
		})
		Convey("should saturate on overflow", func() {
			So(FromTerabytes(16777216).Bytes(), ShouldEqual, uint64(math.MaxUint64))
			So(FromTerabytes(math.Inf(1)).Bytes(), ShouldEqual, uint64(math.MaxUint64))
		})
		Convey("should clamp negative and NaN input to zero", func() {
			So(FromTerabytes(-1).Bytes(), ShouldEqual, uint64(0))
			So(FromTerabytes(math.Inf(-1)).Bytes(), ShouldEqual, uint64(0))
			So(FromTerabytes(math.NaN()).Bytes(), ShouldEqual, uint64(0))
		})
	})
}

func TestFromTerabytesChecked(t *testing.T) {
	Convey("FromTerabytesChecked", t, func() {
		Convey("should accept in range input", func() {
			b, err := FromTerabytesChecked(2)
			So(err, ShouldBeNil)
			So(b.Bytes(), ShouldEqual, 2*TB)
		})
		Convey("should reject negative input", func() {
			_, err := FromTerabytesChecked(-0.5)
			So(errors.Cause(err), ShouldEqual, ErrNegative)
			So(err.Error(), ShouldContainSubstring, "-0.5 TB")
		})
		Convey("should reject NaN", func() {
			_, err := FromTerabytesChecked(math.NaN())
			So(errors.Cause(err), ShouldEqual, ErrNotANumber)
		})
		Convey("should reject overflow", func() {
			_, err := FromTerabytesChecked(1e10)
			So(errors.Cause(err), ShouldEqual, ErrOverflow)
		})
	})
}

func TestIn(t *testing.T) {
	c := New(8589934592)
	for _, u := range []Unit{Kilobyte, Megabyte, Gigabyte, Terabyte} {
		got, err := c.In(u)
		assert.NoError(t, err)
		assert.Equal(t, u, got.Unit)
	}
	v, err := c.In(Gigabyte)
	assert.NoError(t, err)
	assert.Equal(t, c.Gigabytes(), v)

	v, err = c.In(Byte)
	assert.NoError(t, err)
	assert.Equal(t, Value{Value: 8589934592, Unit: Byte}, v)

	_, err = c.In("PB")
	assert.True(t, errors.IsNotValid(err))
}

func TestConcurrentReaders(t *testing.T) {
	c := New(8589934592)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if c.Gigabytes().Value != 8 {
					t.Error("unexpected gigabytes")
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8589934592), c.Bytes())
}
