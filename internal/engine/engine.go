// Package engine drives strategies from an event stream. The same loop
// serves backtests (CSV feed, simulated broker) and live trading
// (Longbridge feed and broker); only the wiring differs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/broker"
	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/marketstore"
	"github.com/simulor-project/simulor/internal/portfolio"
	"github.com/simulor-project/simulor/internal/strategy"
)

// Mode distinguishes backtest runs from live runs in logs and results.
type Mode string

// Run modes.
const (
	ModeBacktest Mode = "backtest"
	ModeLive     Mode = "live"
)

// Options bound one engine run. Start and End restrict processing to a
// time window; zero values leave the window open on that side.
type Options struct {
	Mode  Mode
	Start time.Time
	End   time.Time
}

// Engine connects a feed to strategies and a broker around one fund.
type Engine struct {
	feed       feed.Feed
	fund       *portfolio.Fund
	strategies []*strategy.Strategy
	broker     broker.Broker
	store      *marketstore.Store
	bus        *event.Bus
	logger     *slog.Logger
}

// New assembles an engine. Every strategy must have a capital allocation
// in the fund, so a misnamed strategy fails here instead of silently
// trading with zero capital.
func New(f feed.Feed, fund *portfolio.Fund, strategies []*strategy.Strategy, b broker.Broker, logger *slog.Logger) (*Engine, error) {
	if f == nil || fund == nil || b == nil {
		return nil, fmt.Errorf("%w: engine requires a feed, a fund, and a broker", apperr.ErrInvalidInput)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: engine requires at least one strategy", apperr.ErrInvalidInput)
	}
	allocations := fund.Allocations()
	for _, s := range strategies {
		if _, ok := allocations[s.Name()]; !ok {
			return nil, fmt.Errorf("%w: strategy %q has no capital allocation in the fund", apperr.ErrInvalidInput, s.Name())
		}
	}
	return &Engine{
		feed:       f,
		fund:       fund,
		strategies: strategies,
		broker:     b,
		store:      marketstore.New(marketstore.DefaultCapacity),
		bus:        event.NewBus(256),
		logger:     logger,
	}, nil
}

// Store returns the engine's price history store.
func (e *Engine) Store() *marketstore.Store { return e.store }

// Run streams the feed and processes events until end of stream or
// context cancellation, then returns the run result. The broker is
// connected for the duration of the run.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := e.broker.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting broker: %w", err)
	}
	defer func() {
		if err := e.broker.Disconnect(); err != nil {
			e.logger.Warn("broker disconnect failed", "error", err)
		}
	}()

	e.feed.Initialize(e.bus)
	defer e.bus.Close()

	feedErr := make(chan error, 1)
	go func() { feedErr <- e.feed.Stream(ctx) }()

	result := newResult(opts.Mode, e.fund.InitialCapital())
	e.logger.Info("engine started", "mode", opts.Mode, "strategies", len(e.strategies))

	// feedCh is nilled once the feed goroutine has returned so the
	// select stops considering it; buffered events are still drained.
	feedCh := feedErr

	for {
		select {
		case <-ctx.Done():
			e.feed.Stop()
			// Closing the bus unblocks a feed stuck publishing into a
			// full buffer, so waiting on the feed cannot deadlock.
			e.bus.Close()
			if feedCh != nil {
				if err := <-feedCh; err != nil {
					e.logger.Warn("feed stopped with error", "error", err)
				}
			}
			result.finish(e.fund.Portfolio())
			return result, ctx.Err()
		case err := <-feedCh:
			feedCh = nil
			if err != nil {
				result.finish(e.fund.Portfolio())
				return result, fmt.Errorf("feed failed: %w", err)
			}
		case ev := <-e.bus.Events():
			switch ev := ev.(type) {
			case *event.MarketEvent:
				e.processMarketEvent(ctx, ev, opts, result)
			case *event.EndOfStreamEvent:
				e.logger.Info("end of stream", "reason", ev.Reason)
				if feedCh != nil {
					if err := <-feedCh; err != nil {
						result.finish(e.fund.Portfolio())
						return result, fmt.Errorf("feed failed: %w", err)
					}
				}
				result.finish(e.fund.Portfolio())
				return result, nil
			case *event.OrderUpdateEvent:
				e.logger.Info("order update", "order_id", ev.OrderID, "status", ev.Status)
			}
		}
	}
}

// processMarketEvent applies one event to the store and portfolio, then
// runs every strategy pipeline against it.
func (e *Engine) processMarketEvent(ctx context.Context, ev *event.MarketEvent, opts Options, result *Result) {
	if !opts.Start.IsZero() && ev.Time.Before(opts.Start) {
		return
	}
	if !opts.End.IsZero() && ev.Time.After(opts.End) {
		return
	}

	pf := e.fund.Portfolio()
	for _, d := range ev.Data {
		e.store.Append(d)
		if sim, ok := e.broker.(*broker.Simulated); ok {
			sim.MarkPrice(d.Instrument(), d.Price())
		}
		pf.MarkPrice(d.Instrument(), d.Price())
	}
	result.observe(ev.Time, pf.Equity())

	allocations := e.fund.Allocations()
	for _, s := range e.strategies {
		sctx := strategy.Context{
			Store:     e.store,
			Portfolio: pf,
			Allocated: allocations[s.Name()],
		}
		for _, spec := range s.OnMarketEvent(sctx, ev) {
			e.submit(ctx, s.Name(), spec, result)
		}
	}
}

// submit sends one order and applies a synchronous fill to the
// portfolio. Rejections are recorded and logged, not fatal: a single
// unaffordable order must not end the run.
func (e *Engine) submit(ctx context.Context, strategyName string, spec market.OrderSpec, result *Result) {
	res, err := e.broker.SubmitOrder(ctx, strategyName, spec)
	if err != nil {
		result.OrdersRejected++
		e.logger.Warn("order rejected",
			"strategy", strategyName,
			"instrument", spec.Instrument.String(),
			"side", spec.Side,
			"error", err)
		return
	}
	result.OrdersSubmitted++
	e.logger.Info("order submitted",
		"strategy", strategyName,
		"instrument", spec.Instrument.String(),
		"side", spec.Side,
		"quantity", spec.Quantity.String(),
		"order_id", res.OrderID)

	if !res.Filled {
		return
	}
	result.OrdersFilled++
	if err := e.fund.Portfolio().ApplyFill(spec.Instrument, spec.Side, res.FilledQty, res.FillPrice); err != nil {
		e.logger.Error("fill could not be applied",
			"strategy", strategyName,
			"instrument", spec.Instrument.String(),
			"error", err)
	}
}
