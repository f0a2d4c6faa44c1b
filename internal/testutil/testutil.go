// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"

	"github.com/simulor-project/simulor/internal/feed"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockConnector implements feed.Connector for testing. Each field is a
// function so tests can set only the methods they need; unset methods
// succeed.
type MockConnector struct {
	ConnectFn     func(ctx context.Context) error
	DisconnectFn  func() error
	IsConnectedFn func() bool
}

var _ feed.Connector = (*MockConnector)(nil)

// Connect implements feed.Connector.
func (m *MockConnector) Connect(ctx context.Context) error {
	if m.ConnectFn != nil {
		return m.ConnectFn(ctx)
	}
	return nil
}

// Disconnect implements feed.Connector.
func (m *MockConnector) Disconnect() error {
	if m.DisconnectFn != nil {
		return m.DisconnectFn()
	}
	return nil
}

// IsConnected implements feed.Connector.
func (m *MockConnector) IsConnected() bool {
	if m.IsConnectedFn != nil {
		return m.IsConnectedFn()
	}
	return true
}
