// Command seed loads a demo user with a few trades so the portfolio and
// transaction views have something to show right after a fresh deploy.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"papertrade/internal/database"
	"papertrade/internal/trade"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	repo := database.New(db, logrus.New(), decimal.NewFromInt(10000))
	ctx := context.Background()
	userID := "demo-user"

	stocks := map[string]struct {
		name  string
		price string
	}{
		"AAPL": {"Apple Inc.", "178.50"},
		"TSLA": {"Tesla Inc.", "242.60"},
	}
	for sym, s := range stocks {
		price, _ := decimal.NewFromString(s.price)
		if err := repo.EnsureStockExists(ctx, sym, s.name, price); err != nil {
			log.Fatalf("seed stock %s: %v", sym, err)
		}
	}

	all, err := repo.ListStocks(ctx)
	if err != nil {
		log.Fatalf("list stocks: %v", err)
	}

	orders := map[string]int64{"AAPL": 10, "TSLA": 5}
	for _, s := range all {
		qty, ok := orders[s.Symbol]
		if !ok {
			continue
		}
		tx, err := repo.ExecuteTrade(ctx, userID, s.ID, trade.SideBuy, qty)
		if err != nil {
			fmt.Printf("Warning: could not buy %d %s: %v\n", qty, s.Symbol, err)
			continue
		}
		fmt.Printf("Bought %d %s for %s\n", tx.Quantity, tx.Symbol, tx.TotalAmount.StringFixed(2))
	}

	fmt.Println("Demo portfolio seeded for", userID)
}
