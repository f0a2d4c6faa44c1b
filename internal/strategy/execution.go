package strategy

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/market"
)

// Immediate converts target quantities into market orders for the full
// delta between target and current holding. Orders come out in a stable
// instrument order so backtests are reproducible.
type Immediate struct{}

// NewImmediate returns the immediate execution model.
func NewImmediate() *Immediate { return &Immediate{} }

// Orders implements ExecutionModel.
func (e *Immediate) Orders(ctx Context, targets map[market.Instrument]decimal.Decimal) []market.OrderSpec {
	instruments := make([]market.Instrument, 0, len(targets))
	for inst := range targets {
		instruments = append(instruments, inst)
	}
	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].String() < instruments[j].String()
	})

	var orders []market.OrderSpec
	for _, inst := range instruments {
		current := ctx.Portfolio.Position(inst).Quantity
		delta := targets[inst].Sub(current)
		if delta.IsZero() {
			continue
		}
		side := market.Buy
		if delta.Sign() < 0 {
			side = market.Sell
			delta = delta.Neg()
		}
		orders = append(orders, market.MarketOrder(inst, side, delta))
	}
	return orders
}
