// Package market defines the instrument, tick, bar, and order types shared
// by feeds, strategies, brokers, and the engine.
package market

import "fmt"

// AssetType classifies an instrument.
type AssetType string

// Supported asset types.
const (
	AssetStock AssetType = "stock"
	AssetETF   AssetType = "etf"
)

// Instrument identifies one tradeable security. It is a comparable value
// type and is used as a map key throughout the engine.
type Instrument struct {
	Symbol    string    `json:"symbol"`
	Exchange  string    `json:"exchange"`
	AssetType AssetType `json:"asset_type"`
}

// Stock returns a stock instrument on the given exchange. An empty
// exchange defaults to US.
func Stock(symbol, exchange string) Instrument {
	if exchange == "" {
		exchange = "US"
	}
	return Instrument{Symbol: symbol, Exchange: exchange, AssetType: AssetStock}
}

// String renders the instrument as SYMBOL.EXCHANGE.
func (i Instrument) String() string {
	return fmt.Sprintf("%s.%s", i.Symbol, i.Exchange)
}
