package longbridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/ratelimit"
	"github.com/simulor-project/simulor/internal/worker"
)

// pollBatchSize is the maximum number of security codes per quote request.
const pollBatchSize = 20

// defaultPollRPS paces quote polling against the API's rate limits.
const defaultPollRPS = 5.0

// Feed streams Longbridge market data by polling the quote endpoint on a
// rate-limited cycle and publishing the results as MarketEvents. It
// shares its Connector with the Broker.
type Feed struct {
	feed.Base
	connector *Connector
	logger    *slog.Logger
	limiter   *ratelimit.Limiter
	pool      *worker.Pool[[]string, []Quote]

	mu            sync.Mutex
	subscriptions map[market.Instrument]map[feed.DataType]struct{}

	stopOnce sync.Once
	stop     chan struct{}
}

// NewFeed creates a feed on the shared connector. concurrency bounds the
// number of in-flight quote requests per poll cycle.
func NewFeed(connector *Connector, concurrency int, logger *slog.Logger) *Feed {
	return &Feed{
		Base:          feed.NewBase(connector),
		connector:     connector,
		logger:        logger,
		limiter:       ratelimit.New(defaultPollRPS, 1),
		pool:          worker.NewPool[[]string, []Quote](concurrency, logger),
		subscriptions: make(map[market.Instrument]map[feed.DataType]struct{}),
		stop:          make(chan struct{}),
	}
}

// Subscribe registers instruments for the given data types. The polling
// transport serves quote and trade ticks; depth and bar subscriptions are
// accepted and recorded, but produce no events until a push transport
// exists.
func (f *Feed) Subscribe(instruments []market.Instrument, dataTypes []feed.DataType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range instruments {
		subs, ok := f.subscriptions[inst]
		if !ok {
			subs = make(map[feed.DataType]struct{})
			f.subscriptions[inst] = subs
		}
		for _, dt := range dataTypes {
			subs[dt] = struct{}{}
		}
		f.logger.Info("subscribed", "symbol", Symbol(inst), "data_types", len(dataTypes))
	}
}

// Unsubscribe removes data types for the given instruments; instruments
// with no remaining types are dropped entirely.
func (f *Feed) Unsubscribe(instruments []market.Instrument, dataTypes []feed.DataType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range instruments {
		subs, ok := f.subscriptions[inst]
		if !ok {
			continue
		}
		for _, dt := range dataTypes {
			delete(subs, dt)
		}
		if len(subs) == 0 {
			delete(f.subscriptions, inst)
		}
		f.logger.Info("unsubscribed", "symbol", Symbol(inst))
	}
}

// snapshotSymbols returns the currently subscribed security codes in
// batches, plus a lookup of which data types each instrument wants.
func (f *Feed) snapshotSymbols() ([][]string, map[string]map[feed.DataType]struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wants := make(map[string]map[feed.DataType]struct{}, len(f.subscriptions))
	var all []string
	for inst, subs := range f.subscriptions {
		sym := Symbol(inst)
		all = append(all, sym)
		types := make(map[feed.DataType]struct{}, len(subs))
		for dt := range subs {
			types[dt] = struct{}{}
		}
		wants[sym] = types
	}

	var batches [][]string
	for len(all) > 0 {
		n := min(pollBatchSize, len(all))
		batches = append(batches, all[:n])
		all = all[n:]
	}
	return batches, wants
}

// Stream polls quotes until Stop or context cancellation, then publishes
// an end-of-stream event.
func (f *Feed) Stream(ctx context.Context) error {
	quoteCtx, err := f.connector.QuoteContext()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return f.publishEnd("context cancelled")
		case <-f.stop:
			return f.publishEnd("feed stopped")
		default:
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return f.publishEnd("context cancelled")
		}

		batches, wants := f.snapshotSymbols()
		if len(batches) == 0 {
			continue
		}

		results := f.pool.Map(ctx, batches, func(ctx context.Context, symbols []string) ([]Quote, error) {
			return quoteCtx.GetQuotes(ctx, symbols)
		})
		for _, res := range results {
			if res.Error != nil {
				f.logger.Warn("quote poll failed", "symbols", res.Input, "error", res.Error)
				continue
			}
			f.publishQuotes(res.Value, wants)
		}
	}
}

// publishQuotes converts API quotes into ticks and publishes one
// MarketEvent per quote timestamp group.
func (f *Feed) publishQuotes(quotes []Quote, wants map[string]map[feed.DataType]struct{}) {
	for _, q := range quotes {
		inst, err := ParseSymbol(q.Symbol)
		if err != nil {
			f.logger.Warn("skipping unparseable symbol", "symbol", q.Symbol, "error", err)
			continue
		}
		types, ok := wants[q.Symbol]
		if !ok {
			continue
		}

		ev := &event.MarketEvent{Time: q.Time()}

		if _, want := types[feed.DataQuote]; want && q.Bid.Sign() > 0 && q.Ask.Sign() > 0 {
			ev.Add(market.QuoteTick{
				Time:       q.Time(),
				Inst:       inst,
				Resolution: market.ResolutionTick,
				BidPrice:   q.Bid,
				AskPrice:   q.Ask,
				BidSize:    q.BidVolume,
				AskSize:    q.AskVolume,
			})
		}
		if _, want := types[feed.DataTrade]; want && q.LastDone.Sign() > 0 {
			ev.Add(market.TradeTick{
				Time:       q.Time(),
				Inst:       inst,
				Resolution: market.ResolutionTick,
				TradePrice: q.LastDone,
				Size:       q.Volume,
				Direction:  market.TickNeutral,
			})
		}

		if len(ev.Data) == 0 {
			continue
		}
		if err := f.PublishEvent(ev); err != nil {
			f.logger.Error("publish failed", "error", err)
			return
		}
	}
}

// Stop winds the feed down; Stream returns after publishing the
// end-of-stream event. Safe to call more than once.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

func (f *Feed) publishEnd(reason string) error {
	f.logger.Info("stopping Longbridge feed", "reason", reason)
	return f.PublishEvent(&event.EndOfStreamEvent{Time: time.Now().UTC(), Reason: reason})
}
