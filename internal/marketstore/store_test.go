package marketstore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/market"
)

func tick(inst market.Instrument, price int64) market.TradeTick {
	return market.TradeTick{Time: time.Now(), Inst: inst, TradePrice: decimal.NewFromInt(price)}
}

func TestAppendAndLast(t *testing.T) {
	s := New(10)
	inst := market.Stock("AAPL", "US")

	_, ok := s.Last(inst)
	assert.False(t, ok)

	s.Append(tick(inst, 100))
	s.Append(tick(inst, 101))

	last, ok := s.Last(inst)
	require.True(t, ok)
	assert.Equal(t, "101", last.String())
	assert.Equal(t, 2, s.Len(inst))
}

func TestPricesOldestFirst(t *testing.T) {
	s := New(10)
	inst := market.Stock("700", "HK")
	for _, p := range []int64{1, 2, 3, 4, 5} {
		s.Append(tick(inst, p))
	}

	got := s.Prices(inst, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].String())
	assert.Equal(t, "5", got[2].String())

	// Asking for more than exists returns what exists.
	assert.Len(t, s.Prices(inst, 100), 5)
}

func TestCapacityBound(t *testing.T) {
	s := New(3)
	inst := market.Stock("MSFT", "US")
	for p := int64(1); p <= 10; p++ {
		s.Append(tick(inst, p))
	}

	assert.Equal(t, 3, s.Len(inst))
	got := s.Prices(inst, 3)
	assert.Equal(t, "8", got[0].String())
	assert.Equal(t, "10", got[2].String())
}
