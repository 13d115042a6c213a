// Package trade plans buy and sell orders against a cash balance and an
// optional existing position. Planning is pure; applying the result to the
// store is the repository's job.
package trade

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

var errUnknownSide = errors.New("unknown order side")

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide maps request input to a Side.
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), true
	default:
		return "", false
	}
}

// Position is the mutable part of a holding.
type Position struct {
	Quantity    int64
	AverageCost decimal.Decimal
}

// Result describes the state after a planned order. Position is nil when the
// order closes the holding (or when a failed plan never opened one).
type Result struct {
	Balance  decimal.Decimal
	Position *Position
	Total    decimal.Decimal
}

// Plan computes the effect of an order without touching any store.
//
// Buys debit quantity*price from the balance and fold the purchase into the
// weighted-average cost of the position. Sells credit the proceeds and shrink
// the position, leaving the average cost untouched: realized gains show up as
// cash only, and valuation re-derives invested value from the smaller
// quantity.
func Plan(side Side, balance decimal.Decimal, pos *Position, quantity int64, price decimal.Decimal) (Result, error) {
	if quantity <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	qty := decimal.NewFromInt(quantity)
	total := price.Mul(qty)

	switch side {
	case SideBuy:
		if total.GreaterThan(balance) {
			return Result{}, ErrInsufficientFunds
		}
		next := &Position{Quantity: quantity, AverageCost: price}
		if pos != nil {
			newQuantity := pos.Quantity + quantity
			held := pos.AverageCost.Mul(decimal.NewFromInt(pos.Quantity))
			next = &Position{
				Quantity:    newQuantity,
				AverageCost: held.Add(total).Div(decimal.NewFromInt(newQuantity)),
			}
		}
		return Result{Balance: balance.Sub(total), Position: next, Total: total}, nil

	case SideSell:
		if pos == nil || pos.Quantity < quantity {
			return Result{}, ErrInsufficientShares
		}
		remaining := pos.Quantity - quantity
		var next *Position
		if remaining > 0 {
			next = &Position{Quantity: remaining, AverageCost: pos.AverageCost}
		}
		return Result{Balance: balance.Add(total), Position: next, Total: total}, nil

	default:
		return Result{}, errUnknownSide
	}
}
