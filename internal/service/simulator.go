package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"papertrade/internal/models"
)

// maxSwing bounds one simulation step to +/-2% of the current price.
const maxSwing = 0.02

var priceFloor = decimal.NewFromFloat(0.01)

type StockStore interface {
	ListStocks(ctx context.Context) ([]models.Stock, error)
	UpdateStockPrice(ctx context.Context, id string, previousClose, currentPrice decimal.Decimal) error
}

type Publisher interface {
	Publish(models.Stock)
}

// Simulator perturbs every stock's price by a small random percentage,
// keeping the old price as previous_close. Stocks are updated independently;
// there is no ordering guarantee across them.
type Simulator struct {
	store StockStore
	feed  Publisher
	log   *logrus.Logger
	rng   *rand.Rand
}

func NewSimulator(store StockStore, feed Publisher, log *logrus.Logger) *Simulator {
	return &Simulator{
		store: store,
		feed:  feed,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RunOnce walks all stocks and applies one price step each. It is safe to
// call at any time, including while the background ticker runs; every call
// is an independent full pass. Returns the number of stocks updated.
func (s *Simulator) RunOnce(ctx context.Context) (int, time.Time, error) {
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}

	updated := 0
	for _, stock := range stocks {
		change := (s.rng.Float64() - 0.5) * 2 * maxSwing
		next := nextPrice(stock.CurrentPrice, change)

		if err := s.store.UpdateStockPrice(ctx, stock.ID, stock.CurrentPrice, next); err != nil {
			s.log.Warnf("price update for %s failed: %v", stock.Symbol, err)
			continue
		}
		updated++

		stock.PreviousClose = stock.CurrentPrice
		stock.CurrentPrice = next
		if s.feed != nil {
			s.feed.Publish(stock)
		}
	}
	return updated, time.Now().UTC(), nil
}

// Start runs RunOnce on a ticker until ctx is done.
func (s *Simulator) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("price simulator stopping")
				return
			case <-ticker.C:
				if _, _, err := s.RunOnce(ctx); err != nil {
					s.log.Warnf("price simulation pass failed: %v", err)
				}
			}
		}
	}()
}

// nextPrice applies a fractional change to a price, floors it at one cent,
// and rounds to two decimal places.
func nextPrice(current decimal.Decimal, change float64) decimal.Decimal {
	next := current.Add(current.Mul(decimal.NewFromFloat(change)))
	if next.LessThan(priceFloor) {
		next = priceFloor
	}
	return next.Round(2)
}
