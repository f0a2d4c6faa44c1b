package longbridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/simulor-project/simulor/internal/feed"
)

// QuoteContext serves market data requests over a shared client.
type QuoteContext struct {
	client *Client
}

// GetQuotes fetches real-time quotes for the given security codes.
func (q *QuoteContext) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	return q.client.GetQuotes(ctx, symbols)
}

// TradeContext serves order operations over a shared client.
type TradeContext struct {
	client *Client
}

// SubmitOrder places an order and returns the broker order id.
func (t *TradeContext) SubmitOrder(ctx context.Context, order OrderRequest) (string, error) {
	return t.client.SubmitOrder(ctx, order)
}

// CancelOrder cancels a working order.
func (t *TradeContext) CancelOrder(ctx context.Context, orderID string) error {
	return t.client.CancelOrder(ctx, orderID)
}

// Connector manages the shared connection to Longbridge. It is designed
// to be shared between the Feed and the Broker so both use one session:
// the quote context serves market data, the trade context serves order
// execution. Contexts initialize lazily on first access; Connect
// initializes both eagerly so credentials are validated up front.
type Connector struct {
	mu     sync.Mutex
	creds  Credentials
	logger *slog.Logger
	client *Client
	quote  *QuoteContext
	trade  *TradeContext
}

var _ feed.Connector = (*Connector)(nil)

// NewConnector creates a connector for the given credentials.
func NewConnector(creds Credentials, logger *slog.Logger) *Connector {
	return &Connector{creds: creds, logger: logger}
}

// ensureClient builds the shared client on first use.
func (c *Connector) ensureClient() (*Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	client, err := NewClient(c.creds, c.logger)
	if err != nil {
		return nil, err
	}
	c.client = client
	c.logger.Info("Longbridge client initialized")
	return client, nil
}

// QuoteContext lazily initializes and returns the quote context.
func (c *Connector) QuoteContext() (*QuoteContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quote == nil {
		client, err := c.ensureClient()
		if err != nil {
			return nil, err
		}
		c.quote = &QuoteContext{client: client}
	}
	return c.quote, nil
}

// TradeContext lazily initializes and returns the trade context.
func (c *Connector) TradeContext() (*TradeContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trade == nil {
		client, err := c.ensureClient()
		if err != nil {
			return nil, err
		}
		c.trade = &TradeContext{client: client}
	}
	return c.trade, nil
}

// Connect initializes both contexts eagerly, validating credentials
// before any trading starts.
func (c *Connector) Connect(_ context.Context) error {
	if _, err := c.QuoteContext(); err != nil {
		return err
	}
	_, err := c.TradeContext()
	return err
}

// Disconnect implements feed.Connector. The REST transport holds no
// persistent session, so there is nothing to tear down.
func (c *Connector) Disconnect() error { return nil }

// IsConnected reports whether any context has been initialized.
func (c *Connector) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quote != nil || c.trade != nil
}
