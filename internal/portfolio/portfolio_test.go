package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/market"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuyAndSellRoundTrip(t *testing.T) {
	p := New(d("10000"))
	inst := market.Stock("AAPL", "US")

	require.NoError(t, p.ApplyFill(inst, market.Buy, d("10"), d("100")))
	assert.Equal(t, "9000", p.Cash().String())

	pos := p.Position(inst)
	assert.Equal(t, "10", pos.Quantity.String())
	assert.Equal(t, "100", pos.AvgPrice.String())

	require.NoError(t, p.ApplyFill(inst, market.Sell, d("10"), d("110")))
	assert.Equal(t, "10100", p.Cash().String())
	assert.True(t, p.Position(inst).Quantity.IsZero(), "flat position is removed")
	assert.Empty(t, p.Positions())
}

func TestAveragePriceAcrossLots(t *testing.T) {
	p := New(d("100000"))
	inst := market.Stock("700", "HK")

	require.NoError(t, p.ApplyFill(inst, market.Buy, d("100"), d("300")))
	require.NoError(t, p.ApplyFill(inst, market.Buy, d("100"), d("310")))

	pos := p.Position(inst)
	assert.Equal(t, "200", pos.Quantity.String())
	assert.Equal(t, "305", pos.AvgPrice.String())
}

func TestOverdrawRejected(t *testing.T) {
	p := New(d("500"))
	inst := market.Stock("AAPL", "US")

	err := p.ApplyFill(inst, market.Buy, d("10"), d("100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRejected)

	// Nothing changed.
	assert.Equal(t, "500", p.Cash().String())
	assert.Empty(t, p.Positions())
}

func TestShortSellRejected(t *testing.T) {
	p := New(d("10000"))
	inst := market.Stock("AAPL", "US")
	require.NoError(t, p.ApplyFill(inst, market.Buy, d("5"), d("100")))

	err := p.ApplyFill(inst, market.Sell, d("6"), d("100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRejected)
	assert.Equal(t, "5", p.Position(inst).Quantity.String())
}

func TestEquityMarksToMarket(t *testing.T) {
	p := New(d("10000"))
	inst := market.Stock("AAPL", "US")
	require.NoError(t, p.ApplyFill(inst, market.Buy, d("10"), d("100")))

	assert.Equal(t, "10000", p.Equity().String())

	p.MarkPrice(inst, d("120"))
	assert.Equal(t, "10200", p.Equity().String())
}

func TestFundAllocations(t *testing.T) {
	_, err := NewFund(decimal.Zero, "a")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = NewFund(d("100"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	f, err := NewFund(d("100000"), "alpha", "beta")
	require.NoError(t, err)

	allocs := f.Allocations()
	assert.Equal(t, "50000", allocs["alpha"].String())
	assert.Equal(t, "50000", allocs["beta"].String())
	assert.Equal(t, "100000", f.InitialCapital().String())
	assert.Equal(t, "100000", f.Portfolio().Cash().String())
}
