package longbridge

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/testutil"
)

func newTestFeed(t *testing.T) *Feed {
	t.Helper()
	connector := NewConnector(testCreds(), testutil.NopLogger())
	return NewFeed(connector, 2, testutil.NopLogger())
}

func TestFeedSubscriptionTracking(t *testing.T) {
	f := newTestFeed(t)
	tencent := market.Stock("700", "HKEX")
	apple := market.Stock("AAPL", "NASDAQ")

	f.Subscribe([]market.Instrument{tencent, apple}, []feed.DataType{feed.DataQuote, feed.DataTrade})

	batches, wants := f.snapshotSymbols()
	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []string{"700.HK", "AAPL.US"}, batches[0])
	assert.Contains(t, wants["700.HK"], feed.DataQuote)
	assert.Contains(t, wants["700.HK"], feed.DataTrade)

	// Dropping one type keeps the instrument subscribed.
	f.Unsubscribe([]market.Instrument{tencent}, []feed.DataType{feed.DataTrade})
	_, wants = f.snapshotSymbols()
	assert.Contains(t, wants["700.HK"], feed.DataQuote)
	assert.NotContains(t, wants["700.HK"], feed.DataTrade)

	// Dropping the last type drops the instrument.
	f.Unsubscribe([]market.Instrument{tencent}, []feed.DataType{feed.DataQuote})
	batches, wants = f.snapshotSymbols()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"AAPL.US"}, batches[0])
	assert.NotContains(t, wants, "700.HK")
}

func TestFeedBatchesLargeUniverse(t *testing.T) {
	f := newTestFeed(t)
	var instruments []market.Instrument
	for _, sym := range []string{
		"AAPL", "MSFT", "GOOG", "AMZN", "META", "NVDA", "TSLA", "NFLX", "AMD", "INTC",
		"ORCL", "CRM", "ADBE", "CSCO", "QCOM", "TXN", "AVGO", "IBM", "MU", "AMAT",
		"LRCX", "KLAC", "SNPS",
	} {
		instruments = append(instruments, market.Stock(sym, "NASDAQ"))
	}
	f.Subscribe(instruments, []feed.DataType{feed.DataQuote})

	batches, _ := f.snapshotSymbols()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], pollBatchSize)
	assert.Len(t, batches[1], 3)
}

func TestPublishQuotes(t *testing.T) {
	f := newTestFeed(t)
	bus := event.NewBus(16)
	f.Initialize(bus)

	wants := map[string]map[feed.DataType]struct{}{
		"700.HK":  {feed.DataQuote: {}, feed.DataTrade: {}},
		"AAPL.US": {feed.DataTrade: {}},
	}
	quotes := []Quote{
		{
			Symbol:    "700.HK",
			LastDone:  decimal.RequireFromString("301.5"),
			Bid:       decimal.RequireFromString("301.4"),
			BidVolume: decimal.NewFromInt(1200),
			Ask:       decimal.RequireFromString("301.6"),
			AskVolume: decimal.NewFromInt(800),
			Volume:    decimal.NewFromInt(1000000),
			Timestamp: 1756600000,
		},
		{
			Symbol:    "AAPL.US",
			LastDone:  decimal.RequireFromString("232.1"),
			Volume:    decimal.NewFromInt(500),
			Timestamp: 1756600000,
		},
		// Not subscribed: must not be published.
		{Symbol: "MSFT.US", LastDone: decimal.RequireFromString("430"), Timestamp: 1756600000},
	}

	f.publishQuotes(quotes, wants)
	bus.Close()

	var events []*event.MarketEvent
	for {
		select {
		case e := <-bus.Events():
			events = append(events, e.(*event.MarketEvent))
			continue
		default:
		}
		break
	}
	require.Len(t, events, 2)

	// 700.HK wants both types and has a full book: quote tick plus trade tick.
	tencent := events[0]
	require.Len(t, tencent.Data, 2)
	quote, ok := tencent.Data[0].(market.QuoteTick)
	require.True(t, ok)
	assert.Equal(t, "700", quote.Inst.Symbol)
	assert.Equal(t, "HKEX", quote.Inst.Exchange)
	assert.Equal(t, "301.4", quote.BidPrice.String())
	assert.Equal(t, "301.6", quote.AskPrice.String())
	assert.Equal(t, time.Unix(1756600000, 0).UTC(), quote.Time)

	trade, ok := tencent.Data[1].(market.TradeTick)
	require.True(t, ok)
	assert.Equal(t, "301.5", trade.TradePrice.String())
	assert.Equal(t, market.TickNeutral, trade.Direction)

	// AAPL wants trades only and has no book: one trade tick.
	apple := events[1]
	require.Len(t, apple.Data, 1)
	_, ok = apple.Data[0].(market.TradeTick)
	assert.True(t, ok)
}

func TestPublishQuotesSkipsEmptyBook(t *testing.T) {
	f := newTestFeed(t)
	bus := event.NewBus(4)
	f.Initialize(bus)

	wants := map[string]map[feed.DataType]struct{}{
		"700.HK": {feed.DataQuote: {}},
	}
	// Quote-only subscription with a one-sided book produces nothing.
	f.publishQuotes([]Quote{{
		Symbol:    "700.HK",
		Bid:       decimal.RequireFromString("301.4"),
		Timestamp: 1756600000,
	}}, wants)

	select {
	case e := <-bus.Events():
		t.Fatalf("expected no event, got %#v", e)
	default:
	}
}

func TestFeedStreamStop(t *testing.T) {
	connector := NewConnector(testCreds(), testutil.NopLogger())
	require.NoError(t, connector.Connect(context.Background()))

	httpmock.ActivateNonDefault(connector.client.HTTPClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, DefaultBaseURL+"/v1/quote/get",
		httpmock.NewStringResponder(http.StatusOK, `{"code":0,"message":"","data":{"secu_quote":[]}}`))

	f := NewFeed(connector, 1, testutil.NopLogger())
	f.Subscribe([]market.Instrument{market.Stock("700", "HKEX")}, []feed.DataType{feed.DataQuote})
	bus := event.NewBus(64)
	f.Initialize(bus)

	done := make(chan error, 1)
	go func() { done <- f.Stream(context.Background()) }()

	f.Stop()
	f.Stop() // idempotent

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stream did not return after Stop")
	}

	// The last published event is end-of-stream.
	var last event.Event
	for {
		select {
		case e := <-bus.Events():
			last = e
			continue
		default:
		}
		break
	}
	end, ok := last.(*event.EndOfStreamEvent)
	require.True(t, ok, "expected trailing EndOfStreamEvent, got %#v", last)
	assert.Equal(t, "feed stopped", end.Reason)
}

func TestFeedStreamContextCancel(t *testing.T) {
	connector := NewConnector(testCreds(), testutil.NopLogger())
	require.NoError(t, connector.Connect(context.Background()))

	f := NewFeed(connector, 1, testutil.NopLogger())
	bus := event.NewBus(4)
	f.Initialize(bus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, f.Stream(ctx))

	end, ok := (<-bus.Events()).(*event.EndOfStreamEvent)
	require.True(t, ok)
	assert.Equal(t, "context cancelled", end.Reason)
}

func TestConnectorLazyContexts(t *testing.T) {
	c := NewConnector(testCreds(), testutil.NopLogger())
	assert.False(t, c.IsConnected())

	quote, err := c.QuoteContext()
	require.NoError(t, err)
	assert.True(t, c.IsConnected())

	// Both contexts share one client.
	trade, err := c.TradeContext()
	require.NoError(t, err)
	assert.Same(t, quote.client, trade.client)

	again, err := c.QuoteContext()
	require.NoError(t, err)
	assert.Same(t, quote, again)

	require.NoError(t, c.Disconnect())
}
