package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"papertrade/internal/database"
	"papertrade/internal/models"
	"papertrade/internal/portfolio"
	"papertrade/internal/trade"
)

// Store is the slice of the repository the HTTP layer needs.
type Store interface {
	ListStocks(ctx context.Context) ([]models.Stock, error)
	GetOrCreateProfile(ctx context.Context, userID string) (models.Profile, error)
	GetPositions(ctx context.Context, userID string) ([]portfolio.Position, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	ExecuteTrade(ctx context.Context, userID, stockID string, side trade.Side, quantity int64) (models.Transaction, error)
}

type Simulator interface {
	RunOnce(ctx context.Context) (int, time.Time, error)
}

type Subscriber interface {
	Subscribe() (<-chan models.Stock, func())
}

type Handler struct {
	store Store
	sim   Simulator
	feed  Subscriber
	log   *logrus.Logger
}

func NewHandler(store Store, sim Simulator, feed Subscriber, log *logrus.Logger) *Handler {
	return &Handler{store: store, sim: sim, feed: feed, log: log}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/stocks", h.GetStocks)
	r.GET("/stocks/stream", h.StreamPrices)
	r.GET("/portfolio/:userId", h.GetPortfolio)
	r.GET("/transactions/:userId", h.GetTransactions)
	r.POST("/trade", h.PostTrade)
	r.POST("/simulate-prices", h.SimulatePrices)
}

func (h *Handler) GetStocks(c *gin.Context) {
	stocks, err := h.store.ListStocks(c.Request.Context())
	if err != nil {
		h.log.Errorf("list stocks failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	profile, err := h.store.GetOrCreateProfile(ctx, userID)
	if err != nil {
		h.log.Errorf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	positions, err := h.store.GetPositions(ctx, userID)
	if err != nil {
		h.log.Errorf("get positions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, portfolio.Summarize(positions, profile.Balance))
}

func (h *Handler) GetTransactions(c *gin.Context) {
	rows, err := h.store.ListTransactions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.log.Errorf("list transactions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type TradeRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	StockID  string `json:"stock_id" binding:"required"`
	Side     string `json:"side" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
}

func (h *Handler) PostTrade(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid trade body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	side, ok := trade.ParseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be 'buy' or 'sell'"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": trade.ErrInvalidQuantity.Error()})
		return
	}

	record, err := h.store.ExecuteTrade(c.Request.Context(), req.UserID, req.StockID, side, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, record)
	case errorsIsAny(err, trade.ErrInsufficientFunds, trade.ErrInsufficientShares):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errorsIsAny(err, trade.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case database.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
	default:
		h.log.Errorf("execute trade failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trade failed"})
	}
}

// SimulatePrices runs one full price-simulation pass. Idempotent per call in
// the sense that it never needs a body and each call is an independent step.
func (h *Handler) SimulatePrices(c *gin.Context) {
	updated, ts, err := h.sim.RunOnce(c.Request.Context())
	if err != nil {
		h.log.Errorf("price simulation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "price simulation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"updated":   updated,
		"timestamp": ts.Format(time.RFC3339),
	})
}

// StreamPrices pushes updated stock records to the client as server-sent
// events until the client disconnects.
func (h *Handler) StreamPrices(c *gin.Context) {
	events, cancel := h.feed.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case stock, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("price", stock)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
