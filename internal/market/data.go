package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolution is the time granularity of a piece of market data.
type Resolution string

// Supported resolutions.
const (
	ResolutionTick   Resolution = "tick"
	ResolutionMinute Resolution = "minute"
	ResolutionHour   Resolution = "hour"
	ResolutionDaily  Resolution = "daily"
)

// TickDirection is the aggressor side of a trade tick.
type TickDirection string

// Trade tick directions.
const (
	TickBuy     TickDirection = "buy"
	TickSell    TickDirection = "sell"
	TickNeutral TickDirection = "neutral"
)

// Data is any timestamped datum for one instrument. QuoteTick, TradeTick,
// and Bar implement it.
type Data interface {
	Timestamp() time.Time
	Instrument() Instrument
	// Price returns the representative price for portfolio marking:
	// mid for quotes, trade price for trades, close for bars.
	Price() decimal.Decimal
}

// QuoteTick is a top-of-book quote snapshot.
type QuoteTick struct {
	Time       time.Time       `json:"time"`
	Inst       Instrument      `json:"instrument"`
	Resolution Resolution      `json:"resolution"`
	BidPrice   decimal.Decimal `json:"bid_price"`
	AskPrice   decimal.Decimal `json:"ask_price"`
	BidSize    decimal.Decimal `json:"bid_size"`
	AskSize    decimal.Decimal `json:"ask_size"`
}

func (q QuoteTick) Timestamp() time.Time   { return q.Time }
func (q QuoteTick) Instrument() Instrument { return q.Inst }

// Price returns the bid/ask midpoint.
func (q QuoteTick) Price() decimal.Decimal {
	two := decimal.NewFromInt(2)
	return q.BidPrice.Add(q.AskPrice).Div(two)
}

// TradeTick is a single trade execution.
type TradeTick struct {
	Time       time.Time       `json:"time"`
	Inst       Instrument      `json:"instrument"`
	Resolution Resolution      `json:"resolution"`
	TradePrice decimal.Decimal `json:"price"`
	Size       decimal.Decimal `json:"size"`
	Direction  TickDirection   `json:"direction"`
}

func (t TradeTick) Timestamp() time.Time   { return t.Time }
func (t TradeTick) Instrument() Instrument { return t.Inst }
func (t TradeTick) Price() decimal.Decimal { return t.TradePrice }

// Bar is an OHLCV aggregate for one instrument over one period.
type Bar struct {
	Time       time.Time       `json:"time"`
	Inst       Instrument      `json:"instrument"`
	Resolution Resolution      `json:"resolution"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     decimal.Decimal `json:"volume"`
}

func (b Bar) Timestamp() time.Time   { return b.Time }
func (b Bar) Instrument() Instrument { return b.Inst }
func (b Bar) Price() decimal.Decimal { return b.Close }
