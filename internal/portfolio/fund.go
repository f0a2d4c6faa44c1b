package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/apperr"
)

// Fund owns the portfolio and allocates capital across strategies.
// Allocation is equal-weight; the original per-strategy allocation models
// can be layered on by replacing Allocations.
type Fund struct {
	portfolio  *Portfolio
	capital    decimal.Decimal
	strategies []string
}

// NewFund creates a fund with the given initial capital and strategy
// names. Capital must be positive and at least one strategy is required.
func NewFund(capital decimal.Decimal, strategies ...string) (*Fund, error) {
	if capital.Sign() <= 0 {
		return nil, fmt.Errorf("%w: fund capital must be positive, got %s", apperr.ErrInvalidInput, capital)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: fund requires at least one strategy", apperr.ErrInvalidInput)
	}
	return &Fund{
		portfolio:  New(capital),
		capital:    capital,
		strategies: strategies,
	}, nil
}

// Portfolio returns the fund's portfolio.
func (f *Fund) Portfolio() *Portfolio { return f.portfolio }

// InitialCapital returns the capital the fund started with.
func (f *Fund) InitialCapital() decimal.Decimal { return f.capital }

// Strategies returns the strategy names in registration order.
func (f *Fund) Strategies() []string { return f.strategies }

// Allocations returns the capital allocated to each strategy,
// equal-weighted over the initial capital.
func (f *Fund) Allocations() map[string]decimal.Decimal {
	n := decimal.NewFromInt(int64(len(f.strategies)))
	per := f.capital.Div(n)
	out := make(map[string]decimal.Decimal, len(f.strategies))
	for _, name := range f.strategies {
		out[name] = per
	}
	return out
}
