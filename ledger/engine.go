package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/pkg/id"
)

// Reasons an operation left the ledger untouched. The Ledger returned
// alongside any of these is always the caller's original snapshot.
var (
	ErrEmptyProfit    = errors.New("profit is required")
	ErrInvalidProfit  = errors.New("profit is not a number")
	ErrInvalidDate    = errors.New("date is not a calendar date")
	ErrInvalidBalance = errors.New("starting balance is not a number")
	ErrTradeNotFound  = errors.New("trade not found")
)

// Policy decides what happens to input that cannot be parsed.
type Policy int

const (
	// Lenient coerces unparsable profits to 0 and unparsable dates to the
	// zero date.
	Lenient Policy = iota
	// Strict rejects unparsable profits and dates.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	default:
		return "lenient"
	}
}

// ParsePolicy maps "lenient" or "strict" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}
	return Lenient, fmt.Errorf("unknown policy %q", s)
}

// Input is a user's add or edit request as typed.
type Input struct {
	Profit string `json:"profit"`
	// Date is optional. Empty means today on add and "unchanged" on update.
	Date string `json:"date,omitempty"`
}

// Engine applies mutations to ledger snapshots.
type Engine struct {
	Policy Policy
	Now    func() time.Time
	NewID  func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy sets the input policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.Policy = p }
}

// WithClock sets the clock used for default trade dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.Now = now }
}

// WithIDs sets the trade id source.
func WithIDs(next func() string) Option {
	return func(e *Engine) { e.NewID = next }
}

// NewEngine returns a lenient engine using the wall clock and ULID ids
// unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		Policy: Lenient,
		Now:    time.Now,
		NewID:  id.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add appends a new trade and recomputes.
func (e *Engine) Add(l Ledger, in Input) (Ledger, error) {
	profit, err := e.profit(in.Profit)
	if err != nil {
		return l, err
	}

	date := coerce.Day(e.Now())
	if strings.TrimSpace(in.Date) != "" {
		if date, err = e.date(in.Date); err != nil {
			return l, err
		}
	}

	trades := append(slices.Clone(l.Trades), Trade{
		ID:     e.NewID(),
		Date:   date,
		Profit: profit,
	})
	return Recompute(trades, l.StartingBalance), nil
}

// Update replaces the profit and date of the trade with the given id,
// keeping the id, and recomputes.
func (e *Engine) Update(l Ledger, tradeID string, in Input) (Ledger, error) {
	i := l.index(tradeID)
	if i < 0 {
		return l, ErrTradeNotFound
	}

	profit, err := e.profit(in.Profit)
	if err != nil {
		return l, err
	}

	trades := slices.Clone(l.Trades)
	if strings.TrimSpace(in.Date) != "" {
		date, err := e.date(in.Date)
		if err != nil {
			return l, err
		}
		trades[i].Date = date
	}
	trades[i].Profit = profit

	return Recompute(trades, l.StartingBalance), nil
}

// Delete removes the trade with the given id and recomputes.
func (e *Engine) Delete(l Ledger, tradeID string) (Ledger, error) {
	i := l.index(tradeID)
	if i < 0 {
		return l, ErrTradeNotFound
	}

	trades := slices.Delete(slices.Clone(l.Trades), i, i+1)
	return Recompute(trades, l.StartingBalance), nil
}

// SetStartingBalance changes the balance the running sum starts from.
// Unlike profits, a starting balance that does not parse is always
// rejected, whatever the policy.
func (e *Engine) SetStartingBalance(l Ledger, value string) (Ledger, error) {
	v, ok := coerce.Parse(value)
	if !ok {
		return l, ErrInvalidBalance
	}
	return Recompute(l.Trades, v), nil
}

func (e *Engine) profit(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrEmptyProfit
	}
	v, ok := coerce.Parse(s)
	if !ok && e.Policy == Strict {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProfit, s)
	}
	return v, nil
}

func (e *Engine) date(s string) (time.Time, error) {
	d, ok := coerce.Date(s)
	if !ok && e.Policy == Strict {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
