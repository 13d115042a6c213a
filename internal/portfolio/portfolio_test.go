package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestValue(t *testing.T) {
	line := Value(Position{
		Symbol:       "ACME",
		Quantity:     10,
		AverageCost:  d("110"),
		CurrentPrice: d("121"),
	})

	assert.True(t, line.CurrentValue.Equal(d("1210")), "current %s", line.CurrentValue)
	assert.True(t, line.InvestedValue.Equal(d("1100")), "invested %s", line.InvestedValue)
	assert.True(t, line.PnL.Equal(d("110")), "pnl %s", line.PnL)
	assert.True(t, line.PnLPercent.Equal(d("10")), "pnl%% %s", line.PnLPercent)
}

func TestValue_ZeroInvestedGuard(t *testing.T) {
	line := Value(Position{Quantity: 3, AverageCost: d("0"), CurrentPrice: d("5")})
	assert.True(t, line.PnLPercent.IsZero())
	assert.True(t, line.PnL.Equal(d("15")))
}

func TestSummarize(t *testing.T) {
	positions := []Position{
		{Symbol: "ACME", Quantity: 5, AverageCost: d("100"), CurrentPrice: d("120")},
		{Symbol: "GLOB", Quantity: 2, AverageCost: d("250"), CurrentPrice: d("200")},
	}

	s := Summarize(positions, d("1234.56"))

	require.Len(t, s.Lines, 2)
	assert.True(t, s.Balance.Equal(d("1234.56")))
	assert.True(t, s.TotalValue.Equal(d("1000")), "value %s", s.TotalValue)
	assert.True(t, s.TotalInvested.Equal(d("1000")), "invested %s", s.TotalInvested)
	assert.True(t, s.TotalPnL.IsZero(), "pnl %s", s.TotalPnL)
	assert.True(t, s.TotalPnLPercent.IsZero())
}

func TestSummarize_Idempotent(t *testing.T) {
	positions := []Position{
		{Symbol: "ACME", Quantity: 7, AverageCost: d("99.95"), CurrentPrice: d("101.10")},
	}
	balance := d("500")

	first := Summarize(positions, balance)
	second := Summarize(positions, balance)

	assert.True(t, first.TotalValue.Equal(second.TotalValue))
	assert.True(t, first.TotalInvested.Equal(second.TotalInvested))
	assert.True(t, first.TotalPnL.Equal(second.TotalPnL))
	assert.True(t, first.TotalPnLPercent.Equal(second.TotalPnLPercent))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, d("10000"))
	assert.Empty(t, s.Lines)
	assert.True(t, s.TotalValue.IsZero())
	assert.True(t, s.TotalPnLPercent.IsZero())
	assert.True(t, s.Balance.Equal(d("10000")))
}
