// Package marketstore keeps a bounded in-memory price history per
// instrument for strategy components to query.
package marketstore

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/market"
)

// DefaultCapacity is the per-instrument history bound when none is given.
const DefaultCapacity = 1024

// Store records the representative price of every datum the engine sees.
// Reads and writes may come from different goroutines.
type Store struct {
	mu       sync.RWMutex
	capacity int
	history  map[market.Instrument][]decimal.Decimal
}

// New returns a store keeping up to capacity prices per instrument.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		history:  make(map[market.Instrument][]decimal.Decimal),
	}
}

// Append records one datum's price.
func (s *Store) Append(d market.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst := d.Instrument()
	h := append(s.history[inst], d.Price())
	if len(h) > s.capacity {
		h = h[len(h)-s.capacity:]
	}
	s.history[inst] = h
}

// Last returns the most recent price for inst, if any.
func (s *Store) Last(inst market.Instrument) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history[inst]
	if len(h) == 0 {
		return decimal.Decimal{}, false
	}
	return h[len(h)-1], true
}

// Prices returns up to n most recent prices for inst, oldest first.
// The returned slice is a copy.
func (s *Store) Prices(inst market.Instrument, n int) []decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history[inst]
	if n > len(h) {
		n = len(h)
	}
	out := make([]decimal.Decimal, n)
	copy(out, h[len(h)-n:])
	return out
}

// Len returns the number of recorded prices for inst.
func (s *Store) Len(inst market.Instrument) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history[inst])
}
