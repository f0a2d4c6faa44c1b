// Package event carries market and lifecycle events from feeds to the engine.
package event

import (
	"sync"
	"time"

	"github.com/simulor-project/simulor/internal/market"
)

// Event is anything a feed can publish onto the bus.
type Event interface {
	EventTime() time.Time
}

// MarketEvent groups all market data sharing one timestamp.
type MarketEvent struct {
	Time time.Time
	Data []market.Data
}

// EventTime implements Event.
func (e *MarketEvent) EventTime() time.Time { return e.Time }

// Add appends one datum to the event.
func (e *MarketEvent) Add(d market.Data) {
	e.Data = append(e.Data, d)
}

// Instruments returns the distinct instruments present in the event, in
// first-seen order.
func (e *MarketEvent) Instruments() []market.Instrument {
	seen := make(map[market.Instrument]struct{}, len(e.Data))
	var out []market.Instrument
	for _, d := range e.Data {
		inst := d.Instrument()
		if _, ok := seen[inst]; ok {
			continue
		}
		seen[inst] = struct{}{}
		out = append(out, inst)
	}
	return out
}

// EndOfStreamEvent signals that a feed has no further data.
type EndOfStreamEvent struct {
	Time   time.Time
	Reason string
}

// EventTime implements Event.
func (e *EndOfStreamEvent) EventTime() time.Time { return e.Time }

// OrderUpdateEvent reports a broker-side order state change.
type OrderUpdateEvent struct {
	Time    time.Time
	OrderID string
	Status  string
}

// EventTime implements Event.
func (e *OrderUpdateEvent) EventTime() time.Time { return e.Time }

// Bus is a single-consumer event queue between feeds and the engine.
// Publishers may be multiple goroutines; the engine drains Events().
// The events channel is never closed — consumers stop on an
// EndOfStreamEvent or their own context. Close only unblocks and rejects
// publishers, so a shut-down bus can never deadlock a feed goroutine.
type Bus struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// NewBus returns a bus with the given buffer size. A zero or negative
// size falls back to a small default buffer.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{ch: make(chan Event, buffer), done: make(chan struct{})}
}

// Publish enqueues an event, blocking while the buffer is full. It
// reports whether the event was accepted; publishing to a closed bus
// returns false.
func (b *Bus) Publish(e Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- e:
		return true
	case <-b.done:
		return false
	}
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Done is closed when the bus shuts down.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Close rejects all future publishes and unblocks any publisher waiting
// on a full buffer. Safe to call more than once.
func (b *Bus) Close() {
	b.once.Do(func() { close(b.done) })
}
