// Package container reads and writes the header that precedes an encoded digit stream.
//
// All integers are little-endian:
//
//	[0, 4)   lower bound (uint32)
//	[4, 8)   upper bound (uint32)
//	[8, 12)  number of encoded symbols (uint32)
//	[12, 16) number of model entries (uint32)
//	entries, each a symbol byte followed by its probability as an IEEE-754 float64
//
// The digit stream follows immediately; its last digits are the flushed low bound.
package container

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/fumin/sac/ac"
	"github.com/pkg/errors"
)

const (
	fixedSize = 16
	entrySize = 9
)

// ErrCorruptHeader is returned when a header is malformed or inconsistent.
var ErrCorruptHeader = errors.New("corrupt header")

// A Header carries everything a decoder needs besides the digit stream.
type Header struct {
	Bounds      ac.Bounds
	SymbolCount uint32
	Model       ac.Model
}

// Size returns the number of bytes h occupies when serialized.
func (h Header) Size() int {
	return fixedSize + entrySize*len(h.Model)
}

// AppendBinary appends the serialized form of h to dst.
func (h Header) AppendBinary(dst []byte) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, h.Size())
	binary.LittleEndian.PutUint32(buf[0:4], h.Bounds.Lower)
	binary.LittleEndian.PutUint32(buf[4:8], h.Bounds.Upper)
	binary.LittleEndian.PutUint32(buf[8:12], h.SymbolCount)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(h.Model)))
	off := fixedSize
	for _, e := range h.Model {
		buf[off] = e.Symbol
		binary.LittleEndian.PutUint64(buf[off+1:off+entrySize], math.Float64bits(e.Prob))
		off += entrySize
	}
	return append(dst, buf...), nil
}

// WriteTo writes the serialized form of h to w.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	b, err := h.AppendBinary(nil)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), errors.Wrap(err, "")
	}
	return int64(n), nil
}

// ReadHeader reads a header from r, leaving r positioned at the first digit of the stream.
func ReadHeader(r io.Reader) (Header, error) {
	var fixed [fixedSize]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, short(err, "fixed fields")
	}

	h := Header{
		Bounds: ac.Bounds{
			Lower: binary.LittleEndian.Uint32(fixed[0:4]),
			Upper: binary.LittleEndian.Uint32(fixed[4:8]),
		},
		SymbolCount: binary.LittleEndian.Uint32(fixed[8:12]),
	}
	n := binary.LittleEndian.Uint32(fixed[12:16])
	if n == 0 || n > 256 {
		return Header{}, errors.Wrapf(ErrCorruptHeader, "%d model entries", n)
	}

	entries := make([]byte, entrySize*int(n))
	if _, err := io.ReadFull(r, entries); err != nil {
		return Header{}, short(err, "model entries")
	}
	h.Model = make(ac.Model, n)
	for i := range h.Model {
		e := entries[i*entrySize : (i+1)*entrySize]
		h.Model[i] = ac.Entry{
			Symbol: e[0],
			Prob:   math.Float64frombits(binary.LittleEndian.Uint64(e[1:])),
		}
	}

	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) validate() error {
	if err := h.Bounds.Validate(); err != nil {
		return errors.Wrap(ErrCorruptHeader, err.Error())
	}
	if h.SymbolCount == 0 {
		return errors.Wrap(ErrCorruptHeader, "zero symbols")
	}
	if err := h.Model.Validate(); err != nil {
		return errors.Wrap(ErrCorruptHeader, err.Error())
	}
	return nil
}

func short(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrCorruptHeader, "%s: %v", what, err)
	}
	return errors.Wrap(err, what)
}
