package event

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/market"
)

func TestPublishAndReceive(t *testing.T) {
	bus := NewBus(4)
	ev := &MarketEvent{Time: time.Now()}

	require.True(t, bus.Publish(ev))

	select {
	case got := <-bus.Events():
		assert.Same(t, ev, got)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	bus.Close() // idempotent

	assert.False(t, bus.Publish(&EndOfStreamEvent{Time: time.Now()}))
}

func TestCloseUnblocksFullBuffer(t *testing.T) {
	bus := NewBus(1)
	require.True(t, bus.Publish(&MarketEvent{Time: time.Now()}))

	done := make(chan bool, 1)
	go func() {
		// Buffer is full; this blocks until Close.
		done <- bus.Publish(&MarketEvent{Time: time.Now()})
	}()

	time.Sleep(10 * time.Millisecond)
	bus.Close()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("publisher not unblocked by Close")
	}
}

func TestMarketEventInstruments(t *testing.T) {
	tencent := market.Stock("700", "HK")
	apple := market.Stock("AAPL", "US")

	ev := &MarketEvent{Time: time.Now()}
	ev.Add(market.TradeTick{Time: ev.Time, Inst: tencent, TradePrice: decimal.NewFromInt(300)})
	ev.Add(market.TradeTick{Time: ev.Time, Inst: apple, TradePrice: decimal.NewFromInt(180)})
	ev.Add(market.QuoteTick{Time: ev.Time, Inst: tencent, BidPrice: decimal.NewFromInt(299), AskPrice: decimal.NewFromInt(301)})

	assert.Equal(t, []market.Instrument{tencent, apple}, ev.Instruments())
}
