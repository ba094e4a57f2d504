// Package sac provides a static-model arithmetic compressor.
// A file is scanned once to build a byte frequency table, which is stored in the output header
// followed by the arithmetic coded data as a stream of decimal digits.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go gettysburg.txt > gettys.sac
//    cat gettys.sac | go run decompress/main.go > gettys.dsac
//    diff gettysburg.txt gettys.dsac
package sac

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"

	"github.com/fumin/sac/ac"
	"github.com/fumin/sac/container"
	"github.com/pkg/errors"
)

// ErrInputTooLarge is returned when the input holds more symbols than the header can count.
var ErrInputTooLarge = errors.New("input too large")

// Config holds the parameters of a compression.
type Config struct {
	// LowerBound and UpperBound are the initial coding interval.
	// The number of decimal digits of UpperBound sets the precision of the coder.
	// They are stored in the header and ignored when decoding.
	LowerBound uint32
	UpperBound uint32

	// Logger receives diagnostics, may be nil.
	Logger ac.Logger
}

// DefaultConfig returns a Config spanning the whole uint32 range.
func DefaultConfig() Config {
	return Config{LowerBound: 0, UpperBound: math.MaxUint32}
}

func (cfg Config) bounds() ac.Bounds {
	return ac.Bounds{Lower: cfg.LowerBound, Upper: cfg.UpperBound}
}

func (cfg Config) logger() ac.Logger {
	if cfg.Logger == nil {
		return nopLogger{}
	}
	return cfg.Logger
}

type nopLogger struct{}

func (nopLogger) Infof(format string, v ...interface{}) {}

// Encode compresses data.
func Encode(data []byte, cfg Config) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode(buf, data, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type byteWriter interface {
	io.Writer
	io.ByteWriter
}

func encode(w byteWriter, data []byte, cfg Config) error {
	if err := cfg.bounds().Validate(); err != nil {
		return err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return errors.Wrapf(ErrInputTooLarge, "%d bytes", len(data))
	}
	logger := cfg.logger()

	model, err := ac.BuildModel(data)
	if err != nil {
		return err
	}
	for _, e := range model {
		logger.Infof("symbol %q probability %.4f%%", e.Symbol, e.Prob*100)
	}
	table, err := ac.NewCumulativeTable(model)
	if err != nil {
		return err
	}

	h := container.Header{Bounds: cfg.bounds(), SymbolCount: uint32(len(data)), Model: model}
	if _, err := h.WriteTo(w); err != nil {
		return err
	}

	enc, err := ac.NewEncoder(w, h.Bounds, table, ac.WithLogger(cfg.Logger))
	if err != nil {
		return err
	}
	for _, b := range data {
		if err := enc.Encode(b); err != nil {
			return err
		}
	}
	return enc.Finish()
}

// Decode decompresses an artifact produced by Encode.
// Only cfg.Logger is used, the bounds are read from the artifact.
func Decode(artifact []byte, cfg Config) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := decode(buf, bytes.NewReader(artifact), cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

func decode(w io.ByteWriter, r byteReader, cfg Config) error {
	rd, err := newReader(r, cfg)
	if err != nil {
		return err
	}
	for rd.remaining > 0 {
		b, err := rd.ReadByte()
		if err != nil {
			return err
		}
		if err := w.WriteByte(b); err != nil {
			return errors.Wrap(err, "")
		}
	}

	// The flush is exactly consumed by the last symbol, anything after it is not ours.
	if _, err := r.ReadByte(); err != io.EOF {
		if err != nil {
			return errors.Wrap(err, "")
		}
		return errors.Wrapf(ac.ErrCorruptStream, "trailing data after %d digits", rd.dec.Digits())
	}
	return nil
}

// Compress compresses the file name to w.
func Compress(w io.Writer, name string, cfg Config) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	bw := bufio.NewWriter(w)
	if err := encode(bw, data, cfg); err != nil {
		return errors.Wrap(err, name)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Decompress decompresses the artifact read from r to w.
func Decompress(w io.Writer, r io.Reader, cfg Config) error {
	bw := bufio.NewWriter(w)
	if err := decode(bw, bufio.NewReader(r), cfg); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
