package probability

import (
	"math/rand/v2"

	"github.com/aretw0/ballpark/pkg/domain"
)

// Source is the random source behind every draw.
// *rand.Rand from math/rand/v2 satisfies it; tests inject fixed sequences.
type Source interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// globalSource uses the package-level math/rand/v2 functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the process-wide random source.
func DefaultSource() Source { return globalSource{} }

// NewSeededSource returns a deterministic source for reproducible games.
// The returned source is not safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type weighted[T any] struct {
	value  T
	weight int
}

// pick draws uniformly over the summed weights and returns the item whose
// cumulative range contains the draw.
func pick[T any](items []weighted[T], src Source) (T, bool) {
	var zero T
	total := 0
	for _, it := range items {
		total += it.weight
	}
	if total <= 0 {
		return zero, false
	}

	r := src.IntN(total)
	for _, it := range items {
		if r < it.weight {
			return it.value, true
		}
		r -= it.weight
	}
	return zero, false
}

// Choose performs one weighted draw over a table.
// It returns an empty outcome only for an empty or all-zero table.
func Choose(t domain.Table, src Source) domain.Outcome {
	items := make([]weighted[domain.Outcome], len(t))
	for i, w := range t {
		items[i] = weighted[domain.Outcome]{w.Outcome, w.Weight}
	}
	o, _ := pick(items, src)
	return o
}
