// Package broker defines the order-execution contract and the simulated
// broker used for backtests.
package broker

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/market"
)

// SubmitOrderResult reports the outcome of an order submission.
// For live brokers only OrderID is known at submit time; the simulated
// broker fills synchronously and reports the fill inline.
type SubmitOrderResult struct {
	OrderID   string          `json:"order_id"`
	Filled    bool            `json:"filled"`
	FillPrice decimal.Decimal `json:"fill_price,omitempty"`
	FilledQty decimal.Decimal `json:"filled_qty,omitempty"`
}

// Broker executes orders on behalf of strategies. Implementations map
// market.OrderSpec onto their venue's order model and reject specs they
// cannot express with apperr.ErrInvalidInput.
type Broker interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	SubmitOrder(ctx context.Context, strategyName string, spec market.OrderSpec) (SubmitOrderResult, error)
	CancelOrder(ctx context.Context, strategyName string, orderID string) error
}
