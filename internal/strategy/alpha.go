package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/market"
)

var (
	one    = decimal.NewFromInt(1)
	negOne = decimal.NewFromInt(-1)
)

// BuyAndHold emits a full-strength buy signal the first time it sees each
// instrument and stays silent afterwards.
type BuyAndHold struct {
	seen map[market.Instrument]bool
}

// NewBuyAndHold returns a fresh buy-and-hold alpha model.
func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{seen: make(map[market.Instrument]bool)}
}

// GenerateSignals implements AlphaModel.
func (a *BuyAndHold) GenerateSignals(_ Context, ev *event.MarketEvent) map[market.Instrument]Signal {
	signals := make(map[market.Instrument]Signal)
	for _, inst := range ev.Instruments() {
		if a.seen[inst] {
			continue
		}
		a.seen[inst] = true
		signals[inst] = Signal{
			Instrument: inst,
			Time:       ev.Time,
			Strength:   one,
			Confidence: one,
			Source:     "buy_and_hold",
		}
	}
	return signals
}

// MovingAverageCrossover signals long when the fast simple moving average
// is above the slow one and exit when it is below. No signal is emitted
// until the slow window has filled.
type MovingAverageCrossover struct {
	fast int
	slow int
}

// NewMovingAverageCrossover returns a crossover model with the given
// window lengths. fast must be shorter than slow.
func NewMovingAverageCrossover(fast, slow int) *MovingAverageCrossover {
	if fast <= 0 || slow <= fast {
		panic("strategy: moving average windows must satisfy 0 < fast < slow")
	}
	return &MovingAverageCrossover{fast: fast, slow: slow}
}

// GenerateSignals implements AlphaModel.
func (a *MovingAverageCrossover) GenerateSignals(ctx Context, ev *event.MarketEvent) map[market.Instrument]Signal {
	signals := make(map[market.Instrument]Signal)
	for _, inst := range ev.Instruments() {
		if ctx.Store.Len(inst) < a.slow {
			continue
		}
		fastAvg := sma(ctx.Store.Prices(inst, a.fast))
		slowAvg := sma(ctx.Store.Prices(inst, a.slow))

		strength := negOne
		if fastAvg.GreaterThan(slowAvg) {
			strength = one
		}
		signals[inst] = Signal{
			Instrument: inst,
			Time:       ev.Time,
			Strength:   strength,
			Confidence: one,
			Source:     "ma_crossover",
		}
	}
	return signals
}

// sma returns the arithmetic mean of prices. Callers guarantee a
// non-empty slice.
func sma(prices []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices))))
}
