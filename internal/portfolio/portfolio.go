// Package portfolio derives market value, invested cost, and profit/loss from
// holdings and live prices. Everything here is a pure function of its inputs.
package portfolio

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Position is one holding joined with its live stock row.
type Position struct {
	StockID      string          `json:"stock_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// Line is a valued position.
type Line struct {
	Position
	CurrentValue  decimal.Decimal `json:"current_value"`
	InvestedValue decimal.Decimal `json:"invested_value"`
	PnL           decimal.Decimal `json:"pnl"`
	PnLPercent    decimal.Decimal `json:"pnl_percent"`
}

// Summary is the whole portfolio: valued lines plus the cash balance, which
// is reported separately from the invested totals.
type Summary struct {
	Balance         decimal.Decimal `json:"balance"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalInvested   decimal.Decimal `json:"total_invested"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	TotalPnLPercent decimal.Decimal `json:"total_pnl_percent"`
	Lines           []Line          `json:"holdings"`
}

// Value prices a single position.
func Value(p Position) Line {
	qty := decimal.NewFromInt(p.Quantity)
	current := p.CurrentPrice.Mul(qty)
	invested := p.AverageCost.Mul(qty)
	pnl := current.Sub(invested)

	pct := decimal.Zero
	if invested.IsPositive() {
		pct = pnl.Div(invested).Mul(hundred).Round(4)
	}

	return Line{
		Position:      p,
		CurrentValue:  current,
		InvestedValue: invested,
		PnL:           pnl,
		PnLPercent:    pct,
	}
}

// Summarize values every position and totals them. Calling it twice on the
// same inputs yields identical results.
func Summarize(positions []Position, balance decimal.Decimal) Summary {
	s := Summary{
		Balance:       balance,
		TotalValue:    decimal.Zero,
		TotalInvested: decimal.Zero,
		Lines:         make([]Line, 0, len(positions)),
	}

	for _, p := range positions {
		line := Value(p)
		s.Lines = append(s.Lines, line)
		s.TotalValue = s.TotalValue.Add(line.CurrentValue)
		s.TotalInvested = s.TotalInvested.Add(line.InvestedValue)
	}

	s.TotalPnL = s.TotalValue.Sub(s.TotalInvested)
	s.TotalPnLPercent = decimal.Zero
	if s.TotalInvested.IsPositive() {
		s.TotalPnLPercent = s.TotalPnL.Div(s.TotalInvested).Mul(hundred).Round(4)
	}
	return s
}
