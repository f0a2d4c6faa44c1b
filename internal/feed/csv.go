package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/event"
	"github.com/simulor-project/simulor/internal/market"
)

// csvTimeLayout is the timestamp format expected in bar files.
const csvTimeLayout = "2006-01-02 15:04:05"

// csvHeader is the required column order for bar files.
var csvHeader = []string{"time", "symbol", "exchange", "open", "high", "low", "close", "volume"}

// CSVFeed replays OHLCV bars from a file. Rows sharing a timestamp are
// grouped into one MarketEvent; events are published in ascending time
// order regardless of row order in the file.
type CSVFeed struct {
	Base
	path       string
	resolution market.Resolution
	stop       chan struct{}
}

// NewCSVFeed returns a feed reading bars of the given resolution from path.
func NewCSVFeed(path string, resolution market.Resolution) *CSVFeed {
	return &CSVFeed{
		Base:       NewBase(nil),
		path:       path,
		resolution: resolution,
		stop:       make(chan struct{}),
	}
}

// Stream reads the whole file, then publishes per-timestamp MarketEvents
// followed by an EndOfStreamEvent. Parse errors abort the stream before
// anything is published, so a malformed file never yields a partial run.
func (f *CSVFeed) Stream(ctx context.Context) error {
	events, err := f.load()
	if err != nil {
		return err
	}

	var last time.Time
	for _, ev := range events {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.stop:
			last = ev.Time
			return f.publishEnd(last, "feed stopped")
		default:
		}
		if err := f.PublishEvent(ev); err != nil {
			return err
		}
		last = ev.Time
	}
	return f.publishEnd(last, "end of file")
}

// Stop ends the stream before the file is exhausted. Safe to call once.
func (f *CSVFeed) Stop() {
	close(f.stop)
}

func (f *CSVFeed) publishEnd(t time.Time, reason string) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return f.PublishEvent(&event.EndOfStreamEvent{Time: t, Reason: reason})
}

// load parses the file into time-ordered MarketEvents.
func (f *CSVFeed) load() ([]*event.MarketEvent, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening bar file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %w", apperr.ErrInvalidInput, f.path, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrInvalidInput, f.path, err)
	}

	byTime := make(map[time.Time]*event.MarketEvent)
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", apperr.ErrInvalidInput, f.path, line, err)
		}
		bar, err := parseBar(record, f.resolution)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", apperr.ErrInvalidInput, f.path, line, err)
		}
		ev, ok := byTime[bar.Time]
		if !ok {
			ev = &event.MarketEvent{Time: bar.Time}
			byTime[bar.Time] = ev
		}
		ev.Add(bar)
	}

	events := make([]*event.MarketEvent, 0, len(byTime))
	for _, ev := range byTime {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}

func checkHeader(got []string) error {
	if len(got) != len(csvHeader) {
		return fmt.Errorf("expected %d columns %v, got %d", len(csvHeader), csvHeader, len(got))
	}
	for i, want := range csvHeader {
		if got[i] != want {
			return fmt.Errorf("column %d: expected %q, got %q", i, want, got[i])
		}
	}
	return nil
}

func parseBar(record []string, resolution market.Resolution) (market.Bar, error) {
	ts, err := time.ParseInLocation(csvTimeLayout, record[0], time.UTC)
	if err != nil {
		return market.Bar{}, fmt.Errorf("time: %w", err)
	}

	prices := make([]decimal.Decimal, 5)
	for i, col := range []string{"open", "high", "low", "close", "volume"} {
		prices[i], err = decimal.NewFromString(record[3+i])
		if err != nil {
			return market.Bar{}, fmt.Errorf("%s: %w", col, err)
		}
	}

	return market.Bar{
		Time:       ts,
		Inst:       market.Stock(record[1], record[2]),
		Resolution: resolution,
		Open:       prices[0],
		High:       prices[1],
		Low:        prices[2],
		Close:      prices[3],
		Volume:     prices[4],
	}, nil
}
