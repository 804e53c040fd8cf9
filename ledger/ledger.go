// Package ledger maintains the ordered, balance-annotated sequence of
// trades that every other view of the journal is derived from.
//
// A Ledger is a value. Each operation returns a fresh snapshot built by a
// full Recompute, so the ordering and running-balance invariants hold for
// every Ledger this package hands out.
package ledger

import (
	"slices"
	"time"

	"github.com/andongyersst-spec/trading-journal/coerce"
)

// DefaultStartingBalance is the balance a brand new journal starts from.
const DefaultStartingBalance = 1000.0

// Trade is one realized profit or loss entry.
type Trade struct {
	ID     string    `json:"id" yaml:"id"`
	Date   time.Time `json:"date" yaml:"date"`
	Profit float64   `json:"profit" yaml:"profit"`

	// Balance is the running balance after this trade. Only Recompute
	// writes it.
	Balance float64 `json:"balance" yaml:"balance"`
}

// Win reports whether the trade made money. Zero profit is a loss.
func (t Trade) Win() bool {
	return t.Profit > 0
}

// Ledger is the starting balance plus the trades ordered by date.
type Ledger struct {
	StartingBalance float64 `json:"startingBalance"`
	Trades          []Trade `json:"trades"`
	CurrentBalance  float64 `json:"currentBalance"`
}

// New returns an empty ledger with the default starting balance.
func New() Ledger {
	return Recompute(nil, DefaultStartingBalance)
}

// Recompute sorts trades by date and rebuilds every running balance from
// startingBalance. Trades on the same date keep their relative order. The
// input slice is not modified.
func Recompute(trades []Trade, startingBalance float64) Ledger {
	start := coerce.Finite(startingBalance)

	out := make([]Trade, len(trades))
	copy(out, trades)
	slices.SortStableFunc(out, func(a, b Trade) int {
		return a.Date.Compare(b.Date)
	})

	running := start
	for i := range out {
		out[i].Profit = coerce.Finite(out[i].Profit)
		running += out[i].Profit
		out[i].Balance = running
	}

	return Ledger{
		StartingBalance: start,
		Trades:          out,
		CurrentBalance:  running,
	}
}

// Len returns the number of trades.
func (l Ledger) Len() int {
	return len(l.Trades)
}

// Find returns the trade with the given id.
func (l Ledger) Find(id string) (Trade, bool) {
	i := l.index(id)
	if i < 0 {
		return Trade{}, false
	}
	return l.Trades[i], true
}

func (l Ledger) index(id string) int {
	return slices.IndexFunc(l.Trades, func(t Trade) bool { return t.ID == id })
}

// NetProfit is the sum of all trade profits.
func (l Ledger) NetProfit() float64 {
	return l.CurrentBalance - l.StartingBalance
}

// Between returns the trades dated within [start, end).
func (l Ledger) Between(start, end time.Time) []Trade {
	var out []Trade
	for _, t := range l.Trades {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out
}
