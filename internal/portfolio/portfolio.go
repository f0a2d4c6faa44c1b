// Package portfolio tracks cash, positions, and equity for a fund.
package portfolio

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/market"
)

// Position is a holding in one instrument.
type Position struct {
	Instrument market.Instrument `json:"instrument"`
	Quantity   decimal.Decimal   `json:"quantity"`
	AvgPrice   decimal.Decimal   `json:"avg_price"`
	LastPrice  decimal.Decimal   `json:"last_price"`
}

// MarketValue returns quantity × last price.
func (p Position) MarketValue() decimal.Decimal {
	return p.Quantity.Mul(p.LastPrice)
}

// Portfolio holds cash and positions. All methods are safe for
// concurrent use.
type Portfolio struct {
	mu        sync.RWMutex
	cash      decimal.Decimal
	positions map[market.Instrument]Position
}

// New returns a portfolio with the given starting cash.
func New(cash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:      cash,
		positions: make(map[market.Instrument]Position),
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cash
}

// Position returns the holding for inst; the zero Position if none.
func (p *Portfolio) Position(inst market.Instrument) Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.positions[inst]
}

// Positions returns a snapshot of all non-flat holdings.
func (p *Portfolio) Positions() []Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	return out
}

// MarkPrice updates the valuation price for inst without changing the
// holding.
func (p *Portfolio) MarkPrice(inst market.Instrument, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.positions[inst]
	if !ok {
		return
	}
	pos.LastPrice = price
	p.positions[inst] = pos
}

// Equity returns cash plus the market value of all positions.
func (p *Portfolio) Equity() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	total := p.cash
	for _, pos := range p.positions {
		total = total.Add(pos.MarketValue())
	}
	return total
}

// ApplyFill settles an executed order against cash and positions.
// A buy that would overdraw cash fails with ErrRejected and changes
// nothing. Selling more than held is a short and is likewise rejected;
// the engine never emits orders it cannot cover, so hitting either path
// indicates a strategy bug worth surfacing loudly.
func (p *Portfolio) ApplyFill(inst market.Instrument, side market.OrderSide, qty, price decimal.Decimal) error {
	if qty.Sign() <= 0 {
		return fmt.Errorf("%w: fill quantity must be positive, got %s", apperr.ErrInvalidInput, qty)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cost := qty.Mul(price)
	pos := p.positions[inst]

	switch side {
	case market.Buy:
		if cost.GreaterThan(p.cash) {
			return fmt.Errorf("%w: buying %s %s costs %s but cash is %s", apperr.ErrRejected, qty, inst, cost, p.cash)
		}
		newQty := pos.Quantity.Add(qty)
		// Weighted average entry price across the old and new lots.
		pos.AvgPrice = pos.AvgPrice.Mul(pos.Quantity).Add(cost).Div(newQty)
		pos.Quantity = newQty
		pos.Instrument = inst
		pos.LastPrice = price
		p.cash = p.cash.Sub(cost)
	case market.Sell:
		if qty.GreaterThan(pos.Quantity) {
			return fmt.Errorf("%w: selling %s %s exceeds held %s", apperr.ErrRejected, qty, inst, pos.Quantity)
		}
		pos.Quantity = pos.Quantity.Sub(qty)
		pos.LastPrice = price
		p.cash = p.cash.Add(cost)
	default:
		return fmt.Errorf("%w: unknown order side %q", apperr.ErrInvalidInput, side)
	}

	if pos.Quantity.IsZero() {
		delete(p.positions, inst)
	} else {
		p.positions[inst] = pos
	}
	return nil
}
