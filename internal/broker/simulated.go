package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/market"
)

// Simulated is an in-process broker for backtests. It fills market orders
// at the last observed price and limit orders at the limit price when the
// last price is marketable; a non-marketable limit is rejected rather
// than left working, since the backtest loop has no standing order book.
type Simulated struct {
	mu        sync.Mutex
	last      map[market.Instrument]decimal.Decimal
	nextID    int
	cancelled map[string]bool
}

// NewSimulated returns an empty simulated broker.
func NewSimulated() *Simulated {
	return &Simulated{
		last:      make(map[market.Instrument]decimal.Decimal),
		cancelled: make(map[string]bool),
	}
}

// Connect implements Broker; the simulated broker is always available.
func (b *Simulated) Connect(ctx context.Context) error { return nil }

// Disconnect implements Broker.
func (b *Simulated) Disconnect() error { return nil }

// IsConnected implements Broker.
func (b *Simulated) IsConnected() bool { return true }

// MarkPrice records the latest observed price for an instrument. The
// engine calls this for every market datum before running strategies.
func (b *Simulated) MarkPrice(inst market.Instrument, price decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[inst] = price
}

// SubmitOrder fills the order against the last observed price.
func (b *Simulated) SubmitOrder(_ context.Context, strategyName string, spec market.OrderSpec) (SubmitOrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if spec.Quantity.Sign() <= 0 {
		return SubmitOrderResult{}, fmt.Errorf("%w: order quantity must be positive, got %s", apperr.ErrInvalidInput, spec.Quantity)
	}

	last, ok := b.last[spec.Instrument]
	if !ok {
		return SubmitOrderResult{}, fmt.Errorf("%w: no market price observed for %s", apperr.ErrRejected, spec.Instrument)
	}

	b.nextID++
	id := fmt.Sprintf("sim-%s-%d", strategyName, b.nextID)

	switch spec.Type {
	case market.Market:
		return SubmitOrderResult{OrderID: id, Filled: true, FillPrice: last, FilledQty: spec.Quantity}, nil
	case market.Limit:
		marketable := (spec.Side == market.Buy && last.LessThanOrEqual(spec.LimitPrice)) ||
			(spec.Side == market.Sell && last.GreaterThanOrEqual(spec.LimitPrice))
		if !marketable {
			return SubmitOrderResult{}, fmt.Errorf("%w: limit %s not marketable against last %s for %s",
				apperr.ErrRejected, spec.LimitPrice, last, spec.Instrument)
		}
		return SubmitOrderResult{OrderID: id, Filled: true, FillPrice: spec.LimitPrice, FilledQty: spec.Quantity}, nil
	default:
		return SubmitOrderResult{}, fmt.Errorf("%w: simulated broker does not support %s orders", apperr.ErrInvalidInput, spec.Type)
	}
}

// CancelOrder implements Broker. All simulated fills are immediate, so
// cancellation only records intent.
func (b *Simulated) CancelOrder(_ context.Context, _ string, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelled[orderID] = true
	return nil
}
