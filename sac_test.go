package sac

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"strings"
	"testing"

	"github.com/fumin/sac/ac"
	"github.com/fumin/sac/container"
	"github.com/pkg/errors"
)

func TestEncodeABAC(t *testing.T) {
	data := []byte{0x41, 0x42, 0x41, 0x43}
	cfg := Config{LowerBound: 0, UpperBound: 0xFFFF}
	artifact, err := Encode(data, cfg)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	h, err := container.ReadHeader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if h.SymbolCount != 4 {
		t.Errorf("%d", h.SymbolCount)
	}
	expected := ac.Model{{Symbol: 'A', Prob: 0.5}, {Symbol: 'B', Prob: 0.25}, {Symbol: 'C', Prob: 0.25}}
	for i, e := range expected {
		if h.Model[i] != e {
			t.Errorf("%d: %+v != %+v", i, h.Model[i], e)
		}
	}
	if len(artifact) != h.Size()+6 {
		t.Errorf("%d bytes, header %d", len(artifact), h.Size())
	}

	decoded, err := Decode(artifact, Config{})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(data, decoded) {
		t.Errorf("%v != %v", data, decoded)
	}
}

func TestRoundTrip(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	saturated := make([]byte, 256)
	for i := range saturated {
		saturated[i] = byte(i)
	}
	rng := rand.New(rand.NewSource(2))
	random := make([]byte, 10000)
	for i := range random {
		random[i] = byte(rng.Intn(64) + rng.Intn(64) + rng.Intn(128))
	}

	tests := []struct {
		name string
		data []byte
		cfg  Config
	}{
		{"gettysburg", gettys, DefaultConfig()},
		{"gettysburg 16 bits", gettys, Config{LowerBound: 0, UpperBound: 0xFFFF}},
		{"single byte", []byte{0x7F}, DefaultConfig()},
		{"single symbol", bytes.Repeat([]byte{0x41}, 1000), Config{LowerBound: 0, UpperBound: 0xFFFF}},
		{"saturated", saturated, DefaultConfig()},
		{"saturated 16 bits", saturated, Config{LowerBound: 0, UpperBound: 0xFFFF}},
		{"random", random, Config{LowerBound: 1000, UpperBound: 4000000000}},
	}
	for _, test := range tests {
		artifact, err := Encode(test.data, test.cfg)
		if err != nil {
			t.Fatalf("%s: %+v", test.name, err)
		}
		decoded, err := Decode(artifact, Config{})
		if err != nil {
			t.Fatalf("%s: %+v", test.name, err)
		}
		if !bytes.Equal(test.data, decoded) {
			t.Errorf("%s: decoded %d bytes differ", test.name, len(decoded))
		}
	}
}

func TestDeterministic(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	a, err := Encode(gettys, DefaultConfig())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	b, err := Encode(gettys, DefaultConfig())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("artifacts differ")
	}
}

func TestTruncated(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	artifact, err := Encode(gettys, DefaultConfig())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h, err := container.ReadHeader(bytes.NewReader(artifact))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	digits := len(artifact) - h.Size()
	for _, n := range []int{1, 5, 10, digits} {
		if _, err := Decode(artifact[:len(artifact)-n], Config{}); errors.Cause(err) != ac.ErrTruncatedStream {
			t.Errorf("truncated by %d: %+v", n, err)
		}
	}
	if _, err := Decode(artifact[:h.Size()-1], Config{}); errors.Cause(err) != container.ErrCorruptHeader {
		t.Errorf("%+v", err)
	}
}

func TestTrailingData(t *testing.T) {
	artifact, err := Encode([]byte("trailing"), DefaultConfig())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	artifact = append(artifact, 0)
	if _, err := Decode(artifact, Config{}); errors.Cause(err) != ac.ErrCorruptStream {
		t.Fatalf("%+v", err)
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(nil, DefaultConfig()); errors.Cause(err) != ac.ErrEmptyInput {
		t.Errorf("%+v", err)
	}
	if _, err := Encode([]byte("x"), Config{LowerBound: 10, UpperBound: 10}); errors.Cause(err) != ac.ErrInvalidBounds {
		t.Errorf("%+v", err)
	}

	saturated := make([]byte, 256)
	for i := range saturated {
		saturated[i] = byte(i)
	}
	if _, err := Encode(saturated, Config{LowerBound: 0, UpperBound: 99}); errors.Cause(err) != ac.ErrRangeCollapse {
		t.Errorf("%+v", err)
	}
}

func TestReader(t *testing.T) {
	gettys, err := ioutil.ReadFile("gettysburg.txt")
	if err != nil {
		t.Fatalf("%v", err)
	}
	artifact, err := Encode(gettys, DefaultConfig())
	if err != nil {
		t.Fatalf("%+v", err)
	}

	rd, err := NewReader(bytes.NewReader(artifact), Config{})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if rd.Header().SymbolCount != uint32(len(gettys)) {
		t.Errorf("%d != %d", rd.Header().SymbolCount, len(gettys))
	}
	decoded, err := ioutil.ReadAll(rd)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(gettys, decoded) {
		t.Errorf("decoded %d bytes differ", len(decoded))
	}
}

type recorder struct {
	lines []string
}

func (r *recorder) Infof(format string, v ...interface{}) {
	r.lines = append(r.lines, format)
}

func TestLogger(t *testing.T) {
	rec := &recorder{}
	artifact, err := Encode([]byte("ABAC"), Config{LowerBound: 0, UpperBound: 0xFFFF, Logger: rec})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// One line per model entry, the straddle steps, and the summary of the encoder.
	if len(rec.lines) < 4 || !strings.HasPrefix(rec.lines[len(rec.lines)-1], "encoded") {
		t.Errorf("%q", rec.lines)
	}

	rec.lines = nil
	if _, err := Decode(artifact, Config{Logger: rec}); err != nil {
		t.Fatalf("%+v", err)
	}
	if len(rec.lines) != 1 {
		t.Errorf("%q", rec.lines)
	}
}
