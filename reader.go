package sac

import (
	"bufio"
	"io"

	"github.com/fumin/sac/ac"
	"github.com/fumin/sac/container"
)

// A Reader decompresses an artifact as it is read.
// It stops after the number of symbols recorded in the header and does not check for trailing data.
type Reader struct {
	header    container.Header
	dec       *ac.Decoder
	remaining uint32
}

// NewReader reads the header from r and returns a Reader of the decompressed bytes.
func NewReader(r io.Reader, cfg Config) (*Reader, error) {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return newReader(br, cfg)
}

func newReader(r byteReader, cfg Config) (*Reader, error) {
	h, err := container.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	table, err := ac.NewCumulativeTable(h.Model)
	if err != nil {
		return nil, err
	}
	dec, err := ac.NewDecoder(r, h.Bounds, table, ac.WithLogger(cfg.Logger))
	if err != nil {
		return nil, err
	}
	rd := &Reader{header: h, dec: dec, remaining: h.SymbolCount}
	return rd, nil
}

// Header returns the header of the artifact.
func (rd *Reader) Header() container.Header {
	return rd.header
}

// ReadByte returns the next decompressed byte, or io.EOF after the last one.
func (rd *Reader) ReadByte() (byte, error) {
	if rd.remaining == 0 {
		return 0, io.EOF
	}
	b, err := rd.dec.Decode()
	if err != nil {
		return 0, err
	}
	rd.remaining--
	return b, nil
}

func (rd *Reader) Read(buf []byte) (int, error) {
	if rd.remaining == 0 {
		return 0, io.EOF
	}
	n := len(buf)
	if uint64(n) > uint64(rd.remaining) {
		n = int(rd.remaining)
	}
	for i := 0; i < n; i++ {
		b, err := rd.ReadByte()
		if err != nil {
			return i, err
		}
		buf[i] = b
	}
	return n, nil
}
