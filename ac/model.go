package ac

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// epsilon is the tolerance allowed per entry when probabilities are accumulated.
const epsilon = 1e-9

// An Entry is a symbol together with its probability of occurring.
type Entry struct {
	Symbol byte
	Prob   float64
}

// A Model is a static probability table.
// Its order is significant: the encoder and the decoder assign cumulative intervals in this order,
// so a Model read back from storage must be used as is and never re-sorted.
type Model []Entry

// BuildModel counts the bytes of data and returns their relative frequencies,
// ordered by descending frequency with ties broken by ascending symbol value.
func BuildModel(data []byte) (Model, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var counts [256]uint64
	for _, b := range data {
		counts[b]++
	}

	type tally struct {
		symbol byte
		count  uint64
	}
	tallies := make([]tally, 0, 256)
	for s, c := range counts {
		if c > 0 {
			tallies = append(tallies, tally{symbol: byte(s), count: c})
		}
	}
	// Sorting on the integer counts keeps equal frequencies tied exactly.
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].symbol < tallies[j].symbol
	})

	total := float64(len(data))
	model := make(Model, len(tallies))
	for i, t := range tallies {
		model[i] = Entry{Symbol: t.symbol, Prob: float64(t.count) / total}
	}
	return model, nil
}

// Validate checks that m is a probability distribution over distinct symbols.
func (m Model) Validate() error {
	if len(m) == 0 {
		return errors.Wrap(ErrInvalidModel, "no entries")
	}
	if len(m) > 256 {
		return errors.Wrapf(ErrInvalidModel, "%d entries", len(m))
	}

	var seen [256]bool
	var sum float64
	for i, e := range m {
		if seen[e.Symbol] {
			return errors.Wrapf(ErrInvalidModel, "duplicate symbol %d at entry %d", e.Symbol, i)
		}
		seen[e.Symbol] = true
		if math.IsNaN(e.Prob) || e.Prob <= 0 || e.Prob > 1 {
			return errors.Wrapf(ErrInvalidModel, "probability %v for symbol %d", e.Prob, e.Symbol)
		}
		sum += e.Prob
	}
	if math.Abs(sum-1) > epsilon*float64(len(m)) {
		return errors.Wrapf(ErrInvalidModel, "probabilities sum to %v", sum)
	}
	return nil
}

// A CumulativeTable assigns each symbol of a Model the interval [lower, upper) of [0, 1).
type CumulativeTable struct {
	symbols []byte
	upper   []float64

	// index maps a symbol to its position plus one, zero meaning absent.
	index [256]int
}

// NewCumulativeTable derives the cumulative intervals of m, in the order of m.
// The last upper bound is exactly 1.
func NewCumulativeTable(m Model) (*CumulativeTable, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	t := &CumulativeTable{
		symbols: make([]byte, len(m)),
		upper:   make([]float64, len(m)),
	}
	var cum float64
	for i, e := range m {
		cum += e.Prob
		t.symbols[i] = e.Symbol
		t.upper[i] = cum
		t.index[e.Symbol] = i + 1
	}
	t.upper[len(m)-1] = 1

	for i := range t.upper {
		if t.lower(i) >= t.upper[i] {
			return nil, errors.Wrapf(ErrInvalidModel, "cumulative bound of entry %d does not increase", i)
		}
	}
	return t, nil
}

// Len returns the number of symbols in the table.
func (t *CumulativeTable) Len() int {
	return len(t.symbols)
}

// Entry returns the symbol at position i and its cumulative upper bound.
func (t *CumulativeTable) Entry(i int) (byte, float64) {
	return t.symbols[i], t.upper[i]
}

func (t *CumulativeTable) lower(i int) float64 {
	if i == 0 {
		return 0
	}
	return t.upper[i-1]
}

// Find returns the position of symbol and its interval [lower, upper).
func (t *CumulativeTable) Find(symbol byte) (index int, upper, lower float64, err error) {
	i := t.index[symbol] - 1
	if i < 0 {
		return -1, 0, 0, errors.Wrapf(ErrUnknownSymbol, "symbol %d", symbol)
	}
	return i, t.upper[i], t.lower(i), nil
}

// Search returns the position whose integer sub-interval of a range of the given width contains offset,
// that is the smallest i with floor(width*upper[i]) > offset.
// offset must be less than width.
func (t *CumulativeTable) Search(width, offset uint64) int {
	return sort.Search(len(t.upper), func(i int) bool {
		return scale(width, t.upper[i]) > offset
	})
}
