package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"papertrade/internal/models"
	"papertrade/internal/portfolio"
	"papertrade/internal/trade"
)

// ErrNotFound marks a missing stock or profile.
var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

type Repo struct {
	db              *sqlx.DB
	log             *logrus.Logger
	startingBalance decimal.Decimal
}

func New(db *sqlx.DB, log *logrus.Logger, startingBalance decimal.Decimal) *Repo {
	return &Repo{db: db, log: log, startingBalance: startingBalance}
}

func (r *Repo) ListStocks(ctx context.Context) ([]models.Stock, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, symbol, name, current_price, previous_close FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Stock{}
	for rows.Next() {
		var s models.Stock
		if err := rows.StructScan(&s); err != nil {
			r.log.Warnf("scan stock failed: %v", err)
			continue
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repo) GetStock(ctx context.Context, id string) (models.Stock, error) {
	var s models.Stock
	err := r.db.GetContext(ctx, &s, `SELECT id, symbol, name, current_price, previous_close FROM stocks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stock{}, fmt.Errorf("stock %s: %w", id, ErrNotFound)
	}
	return s, err
}

// GetOrCreateProfile returns the user's profile, creating it with the
// configured starting balance on first access.
func (r *Repo) GetOrCreateProfile(ctx context.Context, userID string) (models.Profile, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, display_name, balance) VALUES ($1, $2, $3, $4::numeric) ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID, userID, r.startingBalance.StringFixed(2))
	if err != nil {
		return models.Profile{}, err
	}
	var p models.Profile
	err = r.db.GetContext(ctx, &p, `SELECT id, user_id, display_name, balance FROM profiles WHERE user_id = $1`, userID)
	return p, err
}

// GetPositions returns the user's holdings joined with live stock rows,
// ready for valuation.
func (r *Repo) GetPositions(ctx context.Context, userID string) ([]portfolio.Position, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT h.stock_id, s.symbol, s.name, h.total_quantity AS quantity, h.average_cost, s.current_price
		FROM holdings h
		JOIN stocks s ON s.id = h.stock_id
		WHERE h.user_id = $1
		ORDER BY s.symbol`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []portfolio.Position{}
	for rows.Next() {
		var p portfolio.Position
		if err := rows.Scan(&p.StockID, &p.Symbol, &p.Name, &p.Quantity, &p.AverageCost, &p.CurrentPrice); err != nil {
			r.log.Warnf("scan position failed: %v", err)
			continue
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repo) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT t.id, t.user_id, t.stock_id, s.symbol, t.side, t.quantity, t.price, t.total_amount, t.created_at
		FROM transactions t
		JOIN stocks s ON s.id = t.stock_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.StructScan(&t); err != nil {
			r.log.Warnf("scan transaction failed: %v", err)
			continue
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// ExecuteTrade applies a buy or sell order in a single database transaction:
// the executed price is the stock's current price read inside the
// transaction, and the balance update, holding upsert/delete, and
// transaction insert commit together or not at all. Profile and holding rows
// are locked so concurrent orders from the same user serialize.
func (r *Repo) ExecuteTrade(ctx context.Context, userID, stockID string, side trade.Side, quantity int64) (models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	var stock models.Stock
	err = tx.GetContext(ctx, &stock, `SELECT id, symbol, name, current_price, previous_close FROM stocks WHERE id = $1`, stockID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, fmt.Errorf("stock %s: %w", stockID, ErrNotFound)
	}
	if err != nil {
		return models.Transaction{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, display_name, balance) VALUES ($1, $2, $3, $4::numeric) ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID, userID, r.startingBalance.StringFixed(2))
	if err != nil {
		return models.Transaction{}, err
	}
	var profile models.Profile
	if err := tx.GetContext(ctx, &profile, `SELECT id, user_id, display_name, balance FROM profiles WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return models.Transaction{}, err
	}

	var pos *trade.Position
	var holdingID string
	row := tx.QueryRowxContext(ctx,
		`SELECT id, total_quantity, average_cost FROM holdings WHERE user_id = $1 AND stock_id = $2 FOR UPDATE`,
		userID, stockID)
	var held trade.Position
	switch err := row.Scan(&holdingID, &held.Quantity, &held.AverageCost); {
	case err == nil:
		pos = &held
	case errors.Is(err, sql.ErrNoRows):
		// first trade in this stock
	default:
		return models.Transaction{}, err
	}

	res, err := trade.Plan(side, profile.Balance, pos, quantity, stock.CurrentPrice)
	if err != nil {
		return models.Transaction{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET balance = $1::numeric WHERE id = $2`,
		res.Balance.StringFixed(2), profile.ID); err != nil {
		return models.Transaction{}, err
	}

	switch {
	case res.Position == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, holdingID); err != nil {
			return models.Transaction{}, err
		}
	case holdingID != "":
		if _, err := tx.ExecContext(ctx,
			`UPDATE holdings SET total_quantity = $1, average_cost = $2::numeric, updated_at = now() WHERE id = $3`,
			res.Position.Quantity, res.Position.AverageCost.StringFixed(4), holdingID); err != nil {
			return models.Transaction{}, err
		}
	default:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO holdings (id, user_id, stock_id, total_quantity, average_cost) VALUES ($1, $2, $3, $4, $5::numeric)`,
			uuid.NewString(), userID, stockID, res.Position.Quantity, res.Position.AverageCost.StringFixed(4)); err != nil {
			return models.Transaction{}, err
		}
	}

	record := models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		StockID:     stockID,
		Symbol:      stock.Symbol,
		Side:        string(side),
		Quantity:    quantity,
		Price:       stock.CurrentPrice,
		TotalAmount: res.Total,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, stock_id, side, quantity, price, total_amount, created_at) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8)`,
		record.ID, record.UserID, record.StockID, record.Side, record.Quantity,
		record.Price.StringFixed(2), record.TotalAmount.StringFixed(2), record.CreatedAt); err != nil {
		return models.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}
	return record, nil
}

// UpdateStockPrice writes one simulator step: the old price moves to
// previous_close, last-write-wins per stock.
func (r *Repo) UpdateStockPrice(ctx context.Context, id string, previousClose, currentPrice decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE stocks SET previous_close = $1::numeric, current_price = $2::numeric, updated_at = now() WHERE id = $3`,
		previousClose.StringFixed(2), currentPrice.StringFixed(2), id)
	return err
}

// EnsureStockExists idempotently seeds one instrument.
func (r *Repo) EnsureStockExists(ctx context.Context, symbol, name string, price decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stocks (id, symbol, name, current_price, previous_close) VALUES ($1, $2, $3, $4::numeric, $4::numeric) ON CONFLICT (symbol) DO NOTHING`,
		uuid.NewString(), symbol, name, price.StringFixed(2))
	return err
}
