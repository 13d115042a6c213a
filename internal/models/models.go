package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument. Prices are mutated only by the price
// simulator; previous_close always holds the price before the latest update.
type Stock struct {
	ID            string          `db:"id" json:"id"`
	Symbol        string          `db:"symbol" json:"symbol"`
	Name          string          `db:"name" json:"name"`
	CurrentPrice  decimal.Decimal `db:"current_price" json:"current_price"`
	PreviousClose decimal.Decimal `db:"previous_close" json:"previous_close"`
}

// Profile carries a user's virtual cash balance. Created lazily on first access.
type Profile struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	DisplayName string          `db:"display_name" json:"display_name"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
}

// Holding is a user's position in one stock. TotalQuantity is always positive
// while the row exists; a sell that empties the position deletes the row
// instead of leaving it at zero.
type Holding struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	StockID       string          `db:"stock_id" json:"stock_id"`
	TotalQuantity int64           `db:"total_quantity" json:"total_quantity"`
	AverageCost   decimal.Decimal `db:"average_cost" json:"average_cost"`
}

// Transaction is an append-only trade record; rows are never updated.
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	StockID     string          `db:"stock_id" json:"stock_id"`
	Symbol      string          `db:"symbol" json:"symbol"`
	Side        string          `db:"side" json:"side"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
