package ac

import (
	"io"

	"github.com/pkg/errors"
)

// An Encoder performs arithmetic coding of bytes against a CumulativeTable,
// writing one decimal digit (a byte valued 0 to 9) per output byte.
// An Encoder is not safe for concurrent use.
type Encoder struct {
	dst    io.ByteWriter
	table  *CumulativeTable
	regs   registers
	logger Logger

	low  uint64
	high uint64

	// pending counts second digits removed by straddle steps whose value is not known yet.
	// They resolve to 9s if the interval settles on pendingLead and to 0s otherwise.
	pending     uint64
	pendingLead uint64

	symbols int64
	digits  int64
}

// NewEncoder returns an Encoder whose interval starts at b and whose output goes to dst.
func NewEncoder(dst io.ByteWriter, b Bounds, table *CumulativeTable, opts ...Option) (*Encoder, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	e := &Encoder{
		dst:    dst,
		table:  table,
		regs:   newRegisters(b.Width()),
		logger: o.logger,
		low:    uint64(b.Lower),
		high:   uint64(b.Upper),
	}
	return e, nil
}

// Range returns the current coding interval.
func (e *Encoder) Range() (low, high uint64) {
	return e.low, e.high
}

// Digits returns the number of digits written so far.
func (e *Encoder) Digits() int64 {
	return e.digits
}

// Encode narrows the coding interval to symbol's cumulative range and writes out the digits that became certain.
func (e *Encoder) Encode(symbol byte) error {
	_, upper, lower, err := e.table.Find(symbol)
	if err != nil {
		return errors.Wrapf(err, "position %d", e.symbols)
	}

	low, high, ok := narrow(e.low, e.high, lower, upper)
	if !ok {
		return errors.Wrapf(ErrRangeCollapse, "symbol %d at position %d, range [%d, %d]", symbol, e.symbols, e.low, e.high)
	}
	e.low, e.high = low, high
	e.symbols++

	return e.renormalize()
}

// renormalize shifts out leading digits common to low and high,
// and removes the second digit while the interval straddles a leading digit boundary.
func (e *Encoder) renormalize() error {
	for {
		switch {
		case e.regs.lead(e.low) == e.regs.lead(e.high):
			if err := e.emit(e.regs.lead(e.high)); err != nil {
				return err
			}
			e.low = e.regs.shift(e.low, 0)
			e.high = e.regs.shift(e.high, 9)
		case e.regs.straddles(e.low, e.high):
			if e.pending == 0 {
				e.pendingLead = e.regs.lead(e.low)
			}
			e.pending++
			e.low = e.regs.dropSecond(e.low, 0)
			e.high = e.regs.dropSecond(e.high, 9)
			e.logger.Infof("straddle at symbol %d, %d digits pending", e.symbols, e.pending)
		default:
			return nil
		}
	}
}

// emit writes d followed by the digits deferred by straddle steps.
func (e *Encoder) emit(d uint64) error {
	if err := e.write(d); err != nil {
		return err
	}
	var fill uint64
	if d == e.pendingLead {
		fill = 9
	}
	for ; e.pending > 0; e.pending-- {
		if err := e.write(fill); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) write(d uint64) error {
	if err := e.dst.WriteByte(byte(d)); err != nil {
		return errors.Wrap(err, "")
	}
	e.digits++
	return nil
}

// Finish writes all digits of low, which lies inside the final interval.
// The Encoder must not be used after Finish.
func (e *Encoder) Finish() error {
	low := e.low
	for i := 0; i < e.regs.width; i++ {
		if err := e.emit(e.regs.lead(low)); err != nil {
			return err
		}
		low = e.regs.shift(low, 0)
	}
	e.logger.Infof("encoded %d symbols into %d digits", e.symbols, e.digits)
	return nil
}
