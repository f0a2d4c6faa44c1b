package strategy

import (
	"fmt"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/market"
)

// Strategy composes one of each component model into a pipeline:
// universe → alpha → construction → risk → execution.
type Strategy struct {
	name         string
	universe     UniverseModel
	alpha        AlphaModel
	construction ConstructionModel
	risk         RiskModel
	execution    ExecutionModel
}

// New assembles a strategy. All components are required.
func New(name string, universe UniverseModel, alpha AlphaModel, construction ConstructionModel, risk RiskModel, execution ExecutionModel) (*Strategy, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: strategy name is required", apperr.ErrInvalidInput)
	}
	if universe == nil || alpha == nil || construction == nil || risk == nil || execution == nil {
		return nil, fmt.Errorf("%w: strategy %q is missing a component model", apperr.ErrInvalidInput, name)
	}
	return &Strategy{
		name:         name,
		universe:     universe,
		alpha:        alpha,
		construction: construction,
		risk:         risk,
		execution:    execution,
	}, nil
}

// Name returns the strategy's name.
func (s *Strategy) Name() string { return s.name }

// OnMarketEvent runs the full pipeline for one market event and returns
// the orders to submit. Signals for instruments outside the current
// universe are discarded before construction.
func (s *Strategy) OnMarketEvent(ctx Context, ev *event.MarketEvent) []market.OrderSpec {
	signals := s.alpha.GenerateSignals(ctx, ev)
	if len(signals) == 0 {
		return nil
	}

	universe := make(map[market.Instrument]struct{})
	for _, inst := range s.universe.Select(ctx) {
		universe[inst] = struct{}{}
	}
	for inst := range signals {
		if _, ok := universe[inst]; !ok {
			delete(signals, inst)
		}
	}
	if len(signals) == 0 {
		return nil
	}

	targets := s.construction.Targets(ctx, signals)
	targets = s.risk.ApplyLimits(ctx, targets)
	return s.execution.Orders(ctx, targets)
}
