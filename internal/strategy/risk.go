package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/market"
)

// PositionLimit caps every target so its market value stays within a
// fixed fraction of current portfolio equity.
type PositionLimit struct {
	maxPosition decimal.Decimal
}

// NewPositionLimit returns a risk model limiting any single position to
// maxPosition (a fraction in (0, 1]) of equity.
func NewPositionLimit(maxPosition decimal.Decimal) *PositionLimit {
	if maxPosition.Sign() <= 0 || maxPosition.GreaterThan(one) {
		panic("strategy: max position fraction must be in (0, 1]")
	}
	return &PositionLimit{maxPosition: maxPosition}
}

// ApplyLimits implements RiskModel. Targets are only ever reduced.
func (r *PositionLimit) ApplyLimits(ctx Context, targets map[market.Instrument]decimal.Decimal) map[market.Instrument]decimal.Decimal {
	equity := ctx.Portfolio.Equity()
	maxValue := equity.Mul(r.maxPosition)

	out := make(map[market.Instrument]decimal.Decimal, len(targets))
	for inst, qty := range targets {
		if qty.Sign() <= 0 {
			out[inst] = qty
			continue
		}
		price, ok := ctx.Store.Last(inst)
		if !ok || price.Sign() <= 0 {
			out[inst] = qty
			continue
		}
		if qty.Mul(price).GreaterThan(maxValue) {
			qty = maxValue.Div(price).Floor()
		}
		out[inst] = qty
	}
	return out
}
