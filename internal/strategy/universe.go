package strategy

import "github.com/simulor-project/simulor/internal/market"

// Static is a fixed universe that never changes.
type Static struct {
	instruments []market.Instrument
}

// NewStatic returns a universe containing exactly the given instruments.
func NewStatic(instruments ...market.Instrument) *Static {
	return &Static{instruments: instruments}
}

// Select implements UniverseModel.
func (s *Static) Select(_ Context) []market.Instrument {
	out := make([]market.Instrument, len(s.instruments))
	copy(out, s.instruments)
	return out
}

// Contains reports whether inst is in the universe.
func (s *Static) Contains(inst market.Instrument) bool {
	for _, i := range s.instruments {
		if i == inst {
			return true
		}
	}
	return false
}
