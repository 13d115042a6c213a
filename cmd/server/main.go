package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"papertrade/internal/config"
	"papertrade/internal/database"
	"papertrade/internal/feed"
	"papertrade/internal/handlers"
	"papertrade/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		logger.Fatalf("invalid STARTING_BALANCE %q: %v", cfg.StartingBalance, err)
	}

	if err := database.RunMigrations(cfg.MigrationsDir, cfg.PostgresURL, logger); err != nil {
		logger.Fatalf("migrations failed: %v", err)
	}

	db, err := initDB(cfg.PostgresURL)
	if err != nil {
		logger.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	repo := database.New(db, logger, startingBalance)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedStocks(ctx, repo, logger)

	hub := feed.New()
	sim := service.NewSimulator(repo, hub, logger)
	sim.Start(ctx, cfg.PriceInterval)

	h := handlers.NewHandler(repo, sim, hub, logger)

	r := gin.Default()
	h.Register(r)

	logger.Infof("server starting on :%s", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func initDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

func seedStocks(ctx context.Context, repo *database.Repo, logger *logrus.Logger) {
	starters := []struct {
		symbol, name string
		price        string
	}{
		{"AAPL", "Apple Inc.", "178.50"},
		{"AMZN", "Amazon.com Inc.", "145.20"},
		{"GOOGL", "Alphabet Inc.", "139.80"},
		{"MSFT", "Microsoft Corporation", "378.90"},
		{"NVDA", "NVIDIA Corporation", "495.30"},
		{"TSLA", "Tesla Inc.", "242.60"},
	}
	for _, s := range starters {
		price, _ := decimal.NewFromString(s.price)
		if err := repo.EnsureStockExists(ctx, s.symbol, s.name, price); err != nil {
			logger.Warnf("seed %s failed: %v", s.symbol, err)
		}
	}
}
