// Package ac implements a static-model arithmetic coder whose output is a stream of decimal digits.
//
// The coder follows the classic integer formulation of arithmetic coding:
// the current interval [low, high] is narrowed by each symbol's cumulative probability range,
// and the leading digits shared by both bounds are shifted out as soon as they are known.
// A boundary straddle (low = d9..., high = (d+1)0...) is handled by removing the second digit
// and deferring its value until the interval settles on one side.
package ac

import (
	"github.com/pkg/errors"
)

var (
	// ErrEmptyInput is returned when a model is requested for zero bytes of data.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnknownSymbol is returned when a symbol is absent from the cumulative table.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrRangeCollapse is returned when the coding interval can no longer represent a symbol.
	ErrRangeCollapse = errors.New("coding range collapsed")

	// ErrTruncatedStream is returned when the digit stream ends before all symbols are decoded.
	ErrTruncatedStream = errors.New("truncated digit stream")

	// ErrCorruptStream is returned when the digit stream holds values no encoder could have produced.
	ErrCorruptStream = errors.New("corrupt digit stream")

	// ErrInvalidModel is returned for probability tables that are not a distribution.
	ErrInvalidModel = errors.New("invalid model")

	// ErrInvalidBounds is returned when lower >= upper.
	ErrInvalidBounds = errors.New("invalid bounds")
)

// A Logger receives diagnostics from the coder.
// *log.Logger does not satisfy it directly, see package internal/logger.
type Logger interface {
	Infof(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(format string, v ...interface{}) {}

// An Option configures an Encoder or Decoder.
type Option func(*options)

type options struct {
	logger Logger
}

// WithLogger routes coder diagnostics to l.
// A nil l disables them.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Bounds is the initial coding interval shared by the encoder and the decoder.
type Bounds struct {
	Lower uint32
	Upper uint32
}

// Validate reports ErrInvalidBounds unless Lower < Upper.
func (b Bounds) Validate() error {
	if b.Lower >= b.Upper {
		return errors.Wrapf(ErrInvalidBounds, "lower %d, upper %d", b.Lower, b.Upper)
	}
	return nil
}

// Width returns the number of decimal digits held by the coding registers,
// which is the number of digits of Upper.
func (b Bounds) Width() int {
	w := 1
	for u := b.Upper; u >= 10; u /= 10 {
		w++
	}
	return w
}

// registers describes the fixed-width decimal registers low, high and code live in.
type registers struct {
	width int
	top   uint64 // 10^(width-1), the weight of the leading digit
	sub   uint64 // 10^(width-2), the weight of the second digit; 0 when width == 1
	max   uint64 // 10^width - 1
}

func newRegisters(width int) registers {
	r := registers{width: width, top: 1}
	for i := 1; i < width; i++ {
		r.top *= 10
	}
	r.sub = r.top / 10
	r.max = r.top*10 - 1
	return r
}

func (r registers) lead(v uint64) uint64 {
	return v / r.top
}

// second returns the second most significant digit of v.
func (r registers) second(v uint64) uint64 {
	if r.sub == 0 {
		return 0
	}
	return (v / r.sub) % 10
}

// straddles reports whether low and high sit on either side of a leading digit boundary
// with nothing but 9s and 0s in between, that is low = d9... and high = (d+1)0... .
func (r registers) straddles(low, high uint64) bool {
	if r.sub == 0 {
		return false
	}
	return r.lead(low)+1 == r.lead(high) && r.second(low) == 9 && r.second(high) == 0
}

// dropSecond removes the second most significant digit of v and shifts the remainder up,
// appending fill as the new least significant digit.
func (r registers) dropSecond(v, fill uint64) uint64 {
	return r.lead(v)*r.top + (v%r.sub)*10 + fill
}

// shift removes the leading digit of v and appends fill.
func (r registers) shift(v, fill uint64) uint64 {
	return (v%r.top)*10 + fill
}

// narrow computes the sub-interval of [low, high] assigned to the cumulative range [lower, upper).
// The flooring is identical for the encoder and the decoder.
func narrow(low, high uint64, lower, upper float64) (uint64, uint64, bool) {
	width := high - low + 1
	lo := scale(width, lower)
	hi := scale(width, upper)
	if hi <= lo {
		return low, high, false
	}
	return low + lo, low + hi - 1, true
}

// scale returns floor(width * p), clamped to width.
func scale(width uint64, p float64) uint64 {
	if p >= 1 {
		return width
	}
	v := uint64(float64(width) * p)
	if v > width {
		v = width
	}
	return v
}
