package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the direction of an order.
type OrderSide string

// Order sides.
const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderType is the execution style of an order.
type OrderType string

// Order types. Not every broker supports every type; broker
// implementations reject unsupported types with apperr.ErrInvalidInput.
const (
	Market          OrderType = "market"
	Limit           OrderType = "limit"
	MarketIfTouched OrderType = "market_if_touched"
	LimitIfTouched  OrderType = "limit_if_touched"
	Stop            OrderType = "stop"
	StopLimit       OrderType = "stop_limit"
	TrailingStop    OrderType = "trailing_stop"
)

// TimeInForce controls how long an order stays working.
type TimeInForce string

// Time-in-force values.
const (
	GTC TimeInForce = "gtc"
	Day TimeInForce = "day"
	GTD TimeInForce = "gtd"
	IOC TimeInForce = "ioc"
	FOK TimeInForce = "fok"
)

// OrderSpec describes one order to be submitted to a broker.
// LimitPrice applies to limit-style types, StopPrice to trigger-style
// types; both are zero otherwise. ExpireAt applies only to GTD.
type OrderSpec struct {
	Instrument  Instrument      `json:"instrument"`
	Side        OrderSide       `json:"side"`
	Type        OrderType       `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	LimitPrice  decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice   decimal.Decimal `json:"stop_price,omitempty"`
	TimeInForce TimeInForce     `json:"time_in_force"`
	ExpireAt    time.Time       `json:"expire_at,omitempty"`
}

// MarketOrder returns a market order for qty of inst, good for the day.
func MarketOrder(inst Instrument, side OrderSide, qty decimal.Decimal) OrderSpec {
	return OrderSpec{
		Instrument:  inst,
		Side:        side,
		Type:        Market,
		Quantity:    qty,
		TimeInForce: Day,
	}
}
