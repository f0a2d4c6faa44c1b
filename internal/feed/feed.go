// Package feed defines the data-feed contract and the CSV bar feed used
// for backtests. Live broker feeds (e.g. Longbridge) implement the same
// contract so the engine runs identically in backtest and live modes.
package feed

import (
	"context"
	"fmt"

	"github.com/simulor-project/simulor/internal/event"
)

// DataType selects which streams a live feed subscribes to.
type DataType string

// Subscription data types.
const (
	DataQuote  DataType = "quote"   // real-time best bid/ask
	DataTrade  DataType = "trade"   // trade executions
	DataDepth  DataType = "depth"   // order book depth
	DataBar1m  DataType = "bar_1m"  // 1-minute bars
	DataBarDay DataType = "bar_day" // daily bars
)

// Connector manages the connection lifecycle for feeds backed by an
// external source (broker APIs). File-backed feeds have none.
type Connector interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
}

// Feed streams market data onto an event bus.
//
// Stream is the main loop: it publishes MarketEvents in time order and
// finishes with an EndOfStreamEvent, then returns. It may be run directly
// for synchronous processing or in a goroutine by the engine. Stop asks a
// live feed to wind down; Stream returns after the end-of-stream event is
// published.
type Feed interface {
	Initialize(bus *event.Bus)
	Stream(ctx context.Context) error
	Stop()
}

// Base provides the bus bookkeeping and connector delegation shared by
// feed implementations. Embed it and set the connector via NewBase.
type Base struct {
	bus       *event.Bus
	connector Connector
}

// NewBase returns a Base with an optional connector (nil for file feeds).
func NewBase(connector Connector) Base {
	return Base{connector: connector}
}

// Initialize sets the event bus the feed publishes to.
func (b *Base) Initialize(bus *event.Bus) {
	b.bus = bus
}

// PublishEvent publishes an event onto the feed's bus. It fails if
// Initialize has not been called; a feed publishing into the void is a
// wiring bug, not a runtime condition.
func (b *Base) PublishEvent(e event.Event) error {
	if b.bus == nil {
		return fmt.Errorf("feed: event bus not set, call Initialize first")
	}
	b.bus.Publish(e)
	return nil
}

// Connect delegates to the connector; a no-op without one.
func (b *Base) Connect(ctx context.Context) error {
	if b.connector == nil {
		return nil
	}
	return b.connector.Connect(ctx)
}

// Disconnect delegates to the connector; a no-op without one.
func (b *Base) Disconnect() error {
	if b.connector == nil {
		return nil
	}
	return b.connector.Disconnect()
}

// IsConnected reports connector state; feeds without a connector are
// always considered connected.
func (b *Base) IsConnected() bool {
	if b.connector == nil {
		return true
	}
	return b.connector.IsConnected()
}
