package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/market"
)

// EqualWeight sizes long signals to equal slices of the strategy's
// allocated capital, optionally keeping a cash reserve. Negative-strength
// signals map to a flat (zero) target.
type EqualWeight struct {
	reservePct decimal.Decimal
}

// NewEqualWeight returns an equal-weight construction model. reservePct
// is the fraction of allocated capital kept in cash, in [0, 1).
func NewEqualWeight(reservePct decimal.Decimal) *EqualWeight {
	if reservePct.Sign() < 0 || reservePct.GreaterThanOrEqual(one) {
		panic("strategy: reserve percentage must be in [0, 1)")
	}
	return &EqualWeight{reservePct: reservePct}
}

// Targets implements ConstructionModel. Quantities are whole shares,
// rounded down; instruments with no observed price are skipped.
func (c *EqualWeight) Targets(ctx Context, signals map[market.Instrument]Signal) map[market.Instrument]decimal.Decimal {
	targets := make(map[market.Instrument]decimal.Decimal)

	var longs []market.Instrument
	for inst, sig := range signals {
		if sig.Strength.Sign() > 0 {
			longs = append(longs, inst)
		} else {
			targets[inst] = decimal.Zero
		}
	}
	if len(longs) == 0 {
		return targets
	}

	deployable := ctx.Allocated.Mul(one.Sub(c.reservePct))
	perInst := deployable.Div(decimal.NewFromInt(int64(len(longs))))

	for _, inst := range longs {
		price, ok := ctx.Store.Last(inst)
		if !ok || price.Sign() <= 0 {
			continue
		}
		targets[inst] = perInst.Div(price).Floor()
	}
	return targets
}
