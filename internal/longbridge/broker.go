package longbridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/broker"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/market"
)

// expireDateLayout is the format Longbridge expects for GTD expiry.
const expireDateLayout = "2006-01-02"

// orderTypes maps engine order types onto Longbridge order type codes.
// Stop-style types have no Longbridge mapping and are rejected.
var orderTypes = map[market.OrderType]string{
	market.Market:          "MO",
	market.Limit:           "LO",
	market.MarketIfTouched: "MIT",
	market.LimitIfTouched:  "LIT",
}

// orderSides maps engine order sides onto Longbridge side codes.
var orderSides = map[market.OrderSide]string{
	market.Buy:  "Buy",
	market.Sell: "Sell",
}

// timeInForces maps engine time-in-force values onto Longbridge codes.
// IOC and FOK are not supported by the API.
var timeInForces = map[market.TimeInForce]string{
	market.GTC: "GoodTilCanceled",
	market.Day: "Day",
	market.GTD: "GoodTilDate",
}

// Broker executes orders through the Longbridge OpenAPI. It shares its
// Connector with the Feed so data and trading ride one session.
type Broker struct {
	connector *Connector
	logger    *slog.Logger
}

var _ broker.Broker = (*Broker)(nil)

// NewBroker creates a broker with its own connector for the credentials.
func NewBroker(creds Credentials, logger *slog.Logger) *Broker {
	return &Broker{connector: NewConnector(creds, logger), logger: logger}
}

// NewBrokerWithConnector creates a broker on an existing shared connector.
func NewBrokerWithConnector(connector *Connector, logger *slog.Logger) *Broker {
	return &Broker{connector: connector, logger: logger}
}

// Connect eagerly initializes the shared connector, validating
// credentials before trading starts.
func (b *Broker) Connect(ctx context.Context) error {
	return b.connector.Connect(ctx)
}

// Disconnect implements broker.Broker.
func (b *Broker) Disconnect() error { return b.connector.Disconnect() }

// IsConnected implements broker.Broker.
func (b *Broker) IsConnected() bool { return b.connector.IsConnected() }

// buildOrderRequest translates an OrderSpec into the wire payload,
// rejecting specs the venue cannot express.
func buildOrderRequest(spec market.OrderSpec) (OrderRequest, error) {
	orderType, ok := orderTypes[spec.Type]
	if !ok {
		return OrderRequest{}, fmt.Errorf("%w: order type %q is not supported by Longbridge", apperr.ErrInvalidInput, spec.Type)
	}
	side, ok := orderSides[spec.Side]
	if !ok {
		return OrderRequest{}, fmt.Errorf("%w: unknown order side %q", apperr.ErrInvalidInput, spec.Side)
	}
	tif, ok := timeInForces[spec.TimeInForce]
	if !ok {
		return OrderRequest{}, fmt.Errorf("%w: time in force %q is not supported by Longbridge", apperr.ErrInvalidInput, spec.TimeInForce)
	}
	if spec.Quantity.Sign() <= 0 {
		return OrderRequest{}, fmt.Errorf("%w: order quantity must be positive, got %s", apperr.ErrInvalidInput, spec.Quantity)
	}

	order := OrderRequest{
		Symbol:       Symbol(spec.Instrument),
		OrderType:    orderType,
		Side:         side,
		SubmittedQty: spec.Quantity.String(),
		TimeInForce:  tif,
	}
	if !spec.LimitPrice.IsZero() {
		order.SubmittedPrice = spec.LimitPrice.String()
	}
	if !spec.StopPrice.IsZero() {
		order.TriggerPrice = spec.StopPrice.String()
	}
	if spec.TimeInForce == market.GTD {
		if spec.ExpireAt.IsZero() {
			return OrderRequest{}, fmt.Errorf("%w: GTD orders require an expiry date", apperr.ErrInvalidInput)
		}
		order.ExpireDate = spec.ExpireAt.Format(expireDateLayout)
	}
	return order, nil
}

// SubmitOrder implements broker.Broker. Live fills arrive asynchronously,
// so the result carries only the broker-assigned order id.
func (b *Broker) SubmitOrder(ctx context.Context, strategyName string, spec market.OrderSpec) (broker.SubmitOrderResult, error) {
	order, err := buildOrderRequest(spec)
	if err != nil {
		return broker.SubmitOrderResult{}, err
	}

	tradeCtx, err := b.connector.TradeContext()
	if err != nil {
		return broker.SubmitOrderResult{}, err
	}
	orderID, err := tradeCtx.SubmitOrder(ctx, order)
	if err != nil {
		return broker.SubmitOrderResult{}, err
	}
	b.logger.Info("order submitted", "strategy", strategyName, "symbol", order.Symbol, "order_id", orderID)
	return broker.SubmitOrderResult{OrderID: orderID}, nil
}

// CancelOrder implements broker.Broker.
func (b *Broker) CancelOrder(ctx context.Context, strategyName string, orderID string) error {
	tradeCtx, err := b.connector.TradeContext()
	if err != nil {
		return err
	}
	if err := tradeCtx.CancelOrder(ctx, orderID); err != nil {
		return err
	}
	b.logger.Info("order cancelled", "strategy", strategyName, "order_id", orderID)
	return nil
}

// LiveFeed creates a Feed on this broker's connector, already subscribed
// to the given instruments and data types.
func (b *Broker) LiveFeed(instruments []market.Instrument, dataTypes []feed.DataType, concurrency int) *Feed {
	f := NewFeed(b.connector, concurrency, b.logger)
	f.Subscribe(instruments, dataTypes)
	return f
}
