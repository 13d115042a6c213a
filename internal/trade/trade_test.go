package trade

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

func TestPlanBuy_OpensPosition(t *testing.T) {
	res, err := Plan(SideBuy, d("1000"), nil, 5, d("100"))
	require.NoError(t, err)

	assert.True(t, res.Balance.Equal(d("500")), "balance %s", res.Balance)
	assert.True(t, res.Total.Equal(d("500")))
	require.NotNil(t, res.Position)
	assert.Equal(t, int64(5), res.Position.Quantity)
	assert.True(t, res.Position.AverageCost.Equal(d("100")))
}

func TestPlanBuy_WeightedAverageCost(t *testing.T) {
	pos := &Position{Quantity: 5, AverageCost: d("100")}

	res, err := Plan(SideBuy, d("10000"), pos, 5, d("120"))
	require.NoError(t, err)

	require.NotNil(t, res.Position)
	assert.Equal(t, int64(10), res.Position.Quantity)
	assert.True(t, res.Position.AverageCost.Equal(d("110")),
		"average cost %s", res.Position.AverageCost)
}

func TestPlanBuy_ExactBalanceSucceeds(t *testing.T) {
	res, err := Plan(SideBuy, d("500"), nil, 5, d("100"))
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(d("0")), "balance %s", res.Balance)
}

func TestPlanBuy_InsufficientFunds(t *testing.T) {
	_, err := Plan(SideBuy, d("499.99"), nil, 5, d("100"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestPlanSell_KeepsAverageCost(t *testing.T) {
	pos := &Position{Quantity: 10, AverageCost: d("110")}

	res, err := Plan(SideSell, d("0"), pos, 4, d("150"))
	require.NoError(t, err)

	assert.True(t, res.Balance.Equal(d("600")), "balance %s", res.Balance)
	require.NotNil(t, res.Position)
	assert.Equal(t, int64(6), res.Position.Quantity)
	assert.True(t, res.Position.AverageCost.Equal(d("110")),
		"average cost must not change on a partial sell, got %s", res.Position.AverageCost)
}

func TestPlanSell_ClosesPosition(t *testing.T) {
	pos := &Position{Quantity: 6, AverageCost: d("110")}

	res, err := Plan(SideSell, d("100"), pos, 6, d("90"))
	require.NoError(t, err)

	assert.Nil(t, res.Position, "selling the full quantity closes the position")
	assert.True(t, res.Balance.Equal(d("640")), "balance %s", res.Balance)
	assert.True(t, res.Total.Equal(d("540")))
}

func TestPlanSell_InsufficientShares(t *testing.T) {
	pos := &Position{Quantity: 3, AverageCost: d("50")}

	_, err := Plan(SideSell, d("0"), pos, 4, d("60"))
	assert.ErrorIs(t, err, ErrInsufficientShares)

	_, err = Plan(SideSell, d("0"), nil, 1, d("60"))
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestPlan_InvalidQuantity(t *testing.T) {
	for _, qty := range []int64{0, -1, -100} {
		_, err := Plan(SideBuy, d("1000"), nil, qty, d("10"))
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
	}
}

func TestParseSide(t *testing.T) {
	side, ok := ParseSide("buy")
	require.True(t, ok)
	assert.Equal(t, SideBuy, side)

	side, ok = ParseSide("sell")
	require.True(t, ok)
	assert.Equal(t, SideSell, side)

	_, ok = ParseSide("short")
	assert.False(t, ok)
}
