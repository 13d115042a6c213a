package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/internal/feed"
	"papertrade/internal/models"
)

type fakeStore struct {
	stocks  []models.Stock
	updates map[string][2]decimal.Decimal // id -> previous_close, current_price
	fail    bool
}

func (f *fakeStore) ListStocks(ctx context.Context) ([]models.Stock, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	return f.stocks, nil
}

func (f *fakeStore) UpdateStockPrice(ctx context.Context, id string, prev, cur decimal.Decimal) error {
	if f.updates == nil {
		f.updates = map[string][2]decimal.Decimal{}
	}
	f.updates[id] = [2]decimal.Decimal{prev, cur}
	return nil
}

func TestNextPrice_Bounds(t *testing.T) {
	fifty := decimal.NewFromInt(50)

	down := nextPrice(fifty, -maxSwing)
	assert.True(t, down.GreaterThanOrEqual(decimal.NewFromInt(49)), "got %s", down)
	assert.True(t, down.LessThanOrEqual(fifty), "got %s", down)

	up := nextPrice(fifty, maxSwing)
	assert.True(t, up.Equal(decimal.NewFromInt(51)), "got %s", up)
}

func TestNextPrice_Floor(t *testing.T) {
	tiny := decimal.NewFromFloat(0.01)
	next := nextPrice(tiny, -maxSwing)
	assert.True(t, next.Equal(decimal.NewFromFloat(0.01)), "got %s", next)
}

func TestNextPrice_RoundsToCents(t *testing.T) {
	next := nextPrice(decimal.NewFromFloat(33.33), 0.0123)
	assert.Equal(t, int32(-2), next.Exponent())
}

func TestRunOnce_UpdatesEveryStockAndPublishes(t *testing.T) {
	store := &fakeStore{stocks: []models.Stock{
		{ID: "a", Symbol: "AAA", CurrentPrice: decimal.NewFromInt(50)},
		{ID: "b", Symbol: "BBB", CurrentPrice: decimal.NewFromInt(200)},
	}}
	hub := feed.New()
	events, cancel := hub.Subscribe()
	defer cancel()

	sim := NewSimulator(store, hub, logrus.New())

	count, ts, err := sim.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, ts.IsZero())

	for _, id := range []string{"a", "b"} {
		upd, ok := store.updates[id]
		require.True(t, ok, "stock %s not updated", id)
		prev, cur := upd[0], upd[1]

		var start decimal.Decimal
		for _, s := range store.stocks {
			if s.ID == id {
				start = s.CurrentPrice
			}
		}
		assert.True(t, prev.Equal(start), "previous_close takes the old price")

		low := start.Mul(decimal.NewFromFloat(1 - maxSwing)).Round(2)
		high := start.Mul(decimal.NewFromFloat(1 + maxSwing)).Round(2)
		assert.True(t, cur.GreaterThanOrEqual(low) && cur.LessThanOrEqual(high),
			"price %s outside [%s, %s]", cur, low, high)
	}

	// both updated records arrive on the feed
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		s := <-events
		seen[s.ID] = true
		assert.False(t, s.PreviousClose.IsZero())
	}
	assert.Len(t, seen, 2)
}

func TestRunOnce_StoreFailure(t *testing.T) {
	sim := NewSimulator(&fakeStore{fail: true}, feed.New(), logrus.New())
	_, _, err := sim.RunOnce(context.Background())
	assert.Error(t, err)
}
