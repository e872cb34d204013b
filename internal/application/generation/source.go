package generation

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Source is the single random stream every stage draws from. Numbers and
// fake text come from one *gofakeit.Faker, so a fixed seed reproduces the
// whole dataset.
type Source struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewSource creates a source. Seed 0 draws a random seed from the global
// faker; Seed reports the one actually used.
func NewSource(seed uint64) *Source {
	for seed == 0 {
		seed = gofakeit.Uint64()
	}
	return &Source{faker: gofakeit.New(seed), seed: seed}
}

// Seed returns the seed that drives the source
func (s *Source) Seed() uint64 {
	return s.seed
}

// Chance returns true with probability p
func (s *Source) Chance(p float64) bool {
	return s.faker.Float64() < p
}

// IntBetween returns a uniform integer in [lo, hi]
func (s *Source) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(s.faker.Float64()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}

// Index returns a uniform index into a collection of size n
func (s *Source) Index(n int) int {
	return s.IntBetween(0, n-1)
}

// Pick returns a uniform element of items
func Pick[T any](s *Source, items []T) T {
	return items[s.Index(len(items))]
}

// Weighted returns an index drawn with the given relative weights
func (s *Source) Weighted(weights ...int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := s.faker.Float64() * float64(total)
	acc := 0.0
	for i, w := range weights {
		acc += float64(w)
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

// DateIn returns a uniform calendar date in the inclusive range
func (s *Source) DateIn(r valueobject.DateRange) time.Time {
	return valueobject.AddDays(r.Start, s.IntBetween(0, r.Days()-1))
}

// DecimalIn returns a uniform decimal in [r.Min, r.Max] rounded to places
func (s *Source) DecimalIn(r Range, places int32) decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Float64Range(r.Min, r.Max)).Round(places)
}

// Rate returns a uniform unrounded rate in [r.Min, r.Max]
func (s *Source) Rate(r Range) decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Float64Range(r.Min, r.Max))
}

// Digits returns an n-digit number with a nonzero leading digit
func (s *Source) Digits(n int) int {
	lo := 1
	for i := 1; i < n; i++ {
		lo *= 10
	}
	return s.IntBetween(lo, lo*10-1)
}
