package longbridge

import (
	"fmt"
	"strings"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/market"
)

// toRegion maps exchange names onto Longbridge region suffixes.
// Format examples: 700.HK, AAPL.US, 600519.SH.
var toRegion = map[string]string{
	"HKEX":   "HK",
	"HK":     "HK",
	"NYSE":   "US",
	"NASDAQ": "US",
	"US":     "US",
	"SSE":    "SH", // Shanghai Stock Exchange
	"SH":     "SH",
	"SZSE":   "SZ", // Shenzhen Stock Exchange
	"SZ":     "SZ",
	"SGX":    "SG", // Singapore Exchange
	"SG":     "SG",
}

// fromRegion maps Longbridge region suffixes back onto exchange names.
// US symbols default to NASDAQ since the API does not distinguish venues.
var fromRegion = map[string]string{
	"HK": "HKEX",
	"US": "NASDAQ",
	"SH": "SSE",
	"SZ": "SZSE",
	"SG": "SGX",
}

// Symbol converts an instrument to the Longbridge security code.
// Unknown exchanges pass through as-is so new regions degrade gracefully.
func Symbol(inst market.Instrument) string {
	exchange := inst.Exchange
	if exchange == "" {
		exchange = "US"
	}
	region, ok := toRegion[exchange]
	if !ok {
		region = exchange
	}
	return fmt.Sprintf("%s.%s", inst.Symbol, region)
}

// ParseSymbol converts a Longbridge security code back to an instrument.
func ParseSymbol(symbol string) (market.Instrument, error) {
	ticker, region, ok := strings.Cut(symbol, ".")
	if !ok || ticker == "" || region == "" {
		return market.Instrument{}, fmt.Errorf("%w: malformed security code %q", apperr.ErrInvalidInput, symbol)
	}
	exchange, ok := fromRegion[region]
	if !ok {
		exchange = region
	}
	return market.Stock(ticker, exchange), nil
}
