// Package strategy defines the composable strategy component models:
// universe selection, alpha, portfolio construction, risk, and execution.
// A Strategy wires one of each into a pipeline the engine drives per
// market event.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/marketstore"
	"github.com/simulor-project/simulor/internal/portfolio"
)

// Context gives strategy components read access to engine state.
type Context struct {
	Store     *marketstore.Store
	Portfolio *portfolio.Portfolio
	// Allocated is the capital this strategy may deploy.
	Allocated decimal.Decimal
}

// Signal is a directional trading view on one instrument.
// Strength is in [-1, 1]: positive is long, negative is short, magnitude
// is conviction. Confidence is in [0, 1].
type Signal struct {
	Instrument market.Instrument `json:"instrument"`
	Time       time.Time         `json:"time"`
	Strength   decimal.Decimal   `json:"strength"`
	Confidence decimal.Decimal   `json:"confidence"`
	Source     string            `json:"source"`
}

// UniverseModel determines which instruments the strategy considers.
type UniverseModel interface {
	Select(ctx Context) []market.Instrument
}

// AlphaModel turns market data into signals. Instruments without a view
// are omitted from the returned map.
type AlphaModel interface {
	GenerateSignals(ctx Context, ev *event.MarketEvent) map[market.Instrument]Signal
}

// ConstructionModel converts signals into target quantities.
// Positive is long, zero is flat.
type ConstructionModel interface {
	Targets(ctx Context, signals map[market.Instrument]Signal) map[market.Instrument]decimal.Decimal
}

// RiskModel adjusts targets to stay within risk limits. It returns the
// same or reduced positions, never increased ones.
type RiskModel interface {
	ApplyLimits(ctx Context, targets map[market.Instrument]decimal.Decimal) map[market.Instrument]decimal.Decimal
}

// ExecutionModel turns target quantities into orders against the current
// portfolio.
type ExecutionModel interface {
	Orders(ctx Context, targets map[market.Instrument]decimal.Decimal) []market.OrderSpec
}
