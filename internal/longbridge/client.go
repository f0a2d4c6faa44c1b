package longbridge

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/version"
)

// DefaultBaseURL is the Longbridge OpenAPI endpoint.
const DefaultBaseURL = "https://openapi.longportapp.com"

// Environment variable names for Longbridge credentials. These match the
// names the official SDKs read.
const (
	EnvAppKey      = "LONGPORT_APP_KEY"
	EnvAppSecret   = "LONGPORT_APP_SECRET"
	EnvAccessToken = "LONGPORT_ACCESS_TOKEN"
)

// Credentials holds the Longbridge OpenAPI key material.
type Credentials struct {
	AppKey      string
	AppSecret   string
	AccessToken string
	// BaseURL overrides DefaultBaseURL; used in tests.
	BaseURL string
}

// CredentialsFromEnv reads credentials from the environment. getenv is
// injected for testability.
func CredentialsFromEnv(getenv func(string) string) Credentials {
	return Credentials{
		AppKey:      getenv(EnvAppKey),
		AppSecret:   getenv(EnvAppSecret),
		AccessToken: getenv(EnvAccessToken),
	}
}

// Complete reports whether all three credential parts are present.
func (c Credentials) Complete() bool {
	return c.AppKey != "" && c.AppSecret != "" && c.AccessToken != ""
}

// apiEnvelope is the response wrapper every Longbridge endpoint returns.
type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Quote is one real-time quote record from the quote endpoint.
type Quote struct {
	Symbol    string          `json:"symbol"`
	LastDone  decimal.Decimal `json:"last_done"`
	Bid       decimal.Decimal `json:"bid"`
	BidVolume decimal.Decimal `json:"bid_volume"`
	Ask       decimal.Decimal `json:"ask"`
	AskVolume decimal.Decimal `json:"ask_volume"`
	Volume    decimal.Decimal `json:"volume"`
	Timestamp int64           `json:"timestamp"`
}

// Time returns the quote's timestamp as UTC.
func (q Quote) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

type quotesResponse struct {
	apiEnvelope
	Data struct {
		Quotes []Quote `json:"secu_quote"`
	} `json:"data"`
}

// OrderRequest is the payload for order submission.
type OrderRequest struct {
	Symbol         string `json:"symbol"`
	OrderType      string `json:"order_type"`
	Side           string `json:"side"`
	SubmittedQty   string `json:"submitted_quantity"`
	TimeInForce    string `json:"time_in_force"`
	SubmittedPrice string `json:"submitted_price,omitempty"`
	TriggerPrice   string `json:"trigger_price,omitempty"`
	ExpireDate     string `json:"expire_date,omitempty"`
}

type orderResponse struct {
	apiEnvelope
	Data struct {
		OrderID string `json:"order_id"`
	} `json:"data"`
}

// Client is a signed REST client for the Longbridge OpenAPI.
type Client struct {
	http   *req.Client
	creds  Credentials
	logger *slog.Logger
	now    func() time.Time
}

// NewClient builds a client for the given credentials. It fails with
// ErrNotConnected when credential parts are missing, so misconfiguration
// surfaces before the first request rather than as a 401 mid-session.
func NewClient(creds Credentials, logger *slog.Logger) (*Client, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("%w: set %s, %s, and %s", apperr.ErrNotConnected, EnvAppKey, EnvAppSecret, EnvAccessToken)
	}
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := req.NewClient().
		SetBaseURL(baseURL).
		SetUserAgent("simulor/" + version.Version).
		SetTimeout(15 * time.Second)

	return &Client{
		http:   httpClient,
		creds:  creds,
		logger: logger,
		now:    time.Now,
	}, nil
}

// sign computes the request signature: HMAC-SHA256 over
// method|path|query|timestamp|body keyed with the app secret.
func (c *Client) sign(method, path, query, timestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(c.creds.AppSecret))
	mac.Write([]byte(strings.Join([]string{method, path, query, timestamp, body}, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// request returns a req.Request with the Longbridge auth headers set.
func (c *Client) request(ctx context.Context, method, path, query, body string) *req.Request {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	return c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.creds.AppKey).
		SetHeader("Authorization", c.creds.AccessToken).
		SetHeader("X-Timestamp", ts).
		SetHeader("X-Api-Signature", c.sign(method, path, query, ts, body))
}

// checkResponse converts transport and API-level failures into wrapped
// sentinel errors.
func checkResponse(resp *req.Response, err error, env *apiEnvelope, what string) error {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", apperr.ErrRequestFailed, what, err)
	}
	if !resp.IsSuccessState() {
		body := resp.String()
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return fmt.Errorf("%w: %s returned HTTP %d: %q", apperr.ErrRequestFailed, what, resp.StatusCode, body)
	}
	if env.Code != 0 {
		return fmt.Errorf("%w: %s returned code %d: %s", apperr.ErrRequestFailed, what, env.Code, env.Message)
	}
	return nil
}

// GetQuotes fetches real-time quotes for the given security codes.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	query := "symbol=" + strings.Join(symbols, ",")

	var out quotesResponse
	resp, err := c.request(ctx, "GET", "/v1/quote/get", query, "").
		SetQueryParam("symbol", strings.Join(symbols, ",")).
		SetSuccessResult(&out).
		Get("/v1/quote/get")
	if err := checkResponse(resp, err, &out.apiEnvelope, "quote request"); err != nil {
		return nil, err
	}
	return out.Data.Quotes, nil
}

// SubmitOrder places an order and returns the broker-assigned order id.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (string, error) {
	var out orderResponse
	resp, err := c.request(ctx, "POST", "/v1/trade/order", "", order.Symbol).
		SetBody(order).
		SetSuccessResult(&out).
		Post("/v1/trade/order")
	if err := checkResponse(resp, err, &out.apiEnvelope, "order submission"); err != nil {
		return "", err
	}
	if out.Data.OrderID == "" {
		return "", fmt.Errorf("%w: order submission returned no order id", apperr.ErrRequestFailed)
	}
	c.logger.Debug("order submitted", "symbol", order.Symbol, "order_id", out.Data.OrderID)
	return out.Data.OrderID, nil
}

// CancelOrder cancels a working order by id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order id is required", apperr.ErrInvalidInput)
	}
	var out orderResponse
	query := "order_id=" + orderID
	resp, err := c.request(ctx, "DELETE", "/v1/trade/order", query, "").
		SetQueryParam("order_id", orderID).
		SetSuccessResult(&out).
		Delete("/v1/trade/order")
	if err := checkResponse(resp, err, &out.apiEnvelope, "order cancellation"); err != nil {
		return err
	}
	c.logger.Debug("order cancelled", "order_id", orderID)
	return nil
}

// HTTPClient exposes the underlying req client for test instrumentation.
func (c *Client) HTTPClient() *req.Client { return c.http }
