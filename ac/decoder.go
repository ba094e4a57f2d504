package ac

import (
	"io"

	"github.com/pkg/errors"
)

// A Decoder reverses an Encoder given the same Bounds and CumulativeTable.
// Completion is decided by the caller, who must know how many symbols were encoded:
// the digit stream carries no end marker.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	src    io.ByteReader
	table  *CumulativeTable
	regs   registers
	logger Logger

	low  uint64
	high uint64
	code uint64

	symbols int64
	digits  int64
}

// NewDecoder returns a Decoder reading digits from src.
// It consumes as many digits as the registers are wide before returning.
func NewDecoder(src io.ByteReader, b Bounds, table *CumulativeTable, opts ...Option) (*Decoder, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	d := &Decoder{
		src:    src,
		table:  table,
		regs:   newRegisters(b.Width()),
		logger: o.logger,
		low:    uint64(b.Lower),
		high:   uint64(b.Upper),
	}
	for i := 0; i < d.regs.width; i++ {
		digit, err := d.next()
		if err != nil {
			return nil, err
		}
		d.code = d.code*10 + digit
	}
	d.logger.Infof("decoding with %d digit registers, initial code %d", d.regs.width, d.code)
	return d, nil
}

// Range returns the current coding interval.
func (d *Decoder) Range() (low, high uint64) {
	return d.low, d.high
}

// Digits returns the number of digits consumed so far.
func (d *Decoder) Digits() int64 {
	return d.digits
}

// Decode returns the next symbol.
func (d *Decoder) Decode() (byte, error) {
	if d.code < d.low || d.code > d.high {
		return 0, errors.Wrapf(ErrCorruptStream, "code %d outside [%d, %d] at position %d", d.code, d.low, d.high, d.symbols)
	}

	width := d.high - d.low + 1
	i := d.table.Search(width, d.code-d.low)
	symbol, upper := d.table.Entry(i)
	low, high, ok := narrow(d.low, d.high, d.table.lower(i), upper)
	if !ok {
		return 0, errors.Wrapf(ErrRangeCollapse, "symbol %d at position %d, range [%d, %d]", symbol, d.symbols, d.low, d.high)
	}
	d.low, d.high = low, high
	d.symbols++

	if err := d.renormalize(); err != nil {
		return 0, err
	}
	return symbol, nil
}

// renormalize mirrors Encoder.renormalize, pulling one digit into code for every digit removed.
func (d *Decoder) renormalize() error {
	for {
		var straddle bool
		switch {
		case d.regs.lead(d.low) == d.regs.lead(d.high):
		case d.regs.straddles(d.low, d.high):
			straddle = true
		default:
			return nil
		}

		digit, err := d.next()
		if err != nil {
			return err
		}
		if straddle {
			d.low = d.regs.dropSecond(d.low, 0)
			d.high = d.regs.dropSecond(d.high, 9)
			d.code = d.regs.dropSecond(d.code, digit)
		} else {
			d.low = d.regs.shift(d.low, 0)
			d.high = d.regs.shift(d.high, 9)
			d.code = d.regs.shift(d.code, digit)
		}
	}
}

func (d *Decoder) next() (uint64, error) {
	b, err := d.src.ReadByte()
	if err == io.EOF {
		return 0, errors.Wrapf(ErrTruncatedStream, "after %d digits, %d symbols", d.digits, d.symbols)
	}
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	if b > 9 {
		return 0, errors.Wrapf(ErrCorruptStream, "byte %#x at digit %d is not a decimal digit", b, d.digits)
	}
	d.digits++
	return uint64(b), nil
}
