// Package session owns the live ledger for one user. It turns front-end
// intents into ledger operations, keeps the edit and delete-confirmation
// state, and saves every committed snapshot.
//
// A Controller is not safe for concurrent use; front ends serialise calls.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/andongyersst-spec/trading-journal/internal/logging"
	"github.com/andongyersst-spec/trading-journal/journal"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

// ErrNoPendingDelete is returned by ConfirmDelete when nothing awaits
// confirmation.
var ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

type Controller struct {
	engine *ledger.Engine
	store  journal.Store
	log    *zap.Logger
	now    func() time.Time

	ledger  ledger.Ledger
	editing string
	del     DeleteState
}

type options struct {
	log          *zap.Logger
	now          func() time.Time
	startBalance float64
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the clock used for View.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStartingBalance sets the starting balance of a ledger created when
// the store holds nothing usable.
func WithStartingBalance(v float64) Option {
	return func(o *options) { o.startBalance = v }
}

// Open hydrates a Controller from store. A missing, unreadable or
// malformed stored ledger is replaced by a fresh one; Open never fails.
// store may be nil, in which case nothing is persisted.
func Open(ctx context.Context, store journal.Store, engine *ledger.Engine, opts ...Option) *Controller {
	o := options{
		now:          time.Now,
		startBalance: ledger.DefaultStartingBalance,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if engine == nil {
		engine = ledger.NewEngine()
	}

	c := &Controller{
		engine: engine,
		store:  store,
		log:    logging.OrNop(o.log),
		now:    o.now,
	}
	c.ledger = c.load(ctx, o.startBalance)
	return c
}

func (c *Controller) load(ctx context.Context, startBalance float64) ledger.Ledger {
	fresh := ledger.Recompute(nil, startBalance)
	if c.store == nil {
		return fresh
	}

	st, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("stored ledger unreadable, starting fresh", zap.Error(err))
		return fresh
	}
	if st == nil {
		c.log.Debug("no stored ledger, starting fresh", zap.Float64("starting_balance", startBalance))
		return fresh
	}

	l := st.Ledger()
	if l.CurrentBalance != st.CurrentBalance {
		c.log.Debug("stored balance rebuilt",
			zap.Float64("stored", st.CurrentBalance),
			zap.Float64("recomputed", l.CurrentBalance))
	}
	c.log.Info("ledger loaded",
		zap.Int("trades", l.Len()),
		zap.Float64("balance", l.CurrentBalance))
	return l
}

// Ledger returns the current snapshot.
func (c *Controller) Ledger() ledger.Ledger {
	return c.ledger
}

// View derives the render model from the current snapshot.
func (c *Controller) View() View {
	v := Derive(c.ledger, c.now())
	v.PendingDelete, _ = c.del.Pending()
	v.Editing = c.editing
	return v
}

// commit installs next and saves it. Save failures are logged and
// otherwise ignored: the in-memory ledger stays authoritative.
func (c *Controller) commit(ctx context.Context, op string, next ledger.Ledger) {
	c.ledger = next
	c.log.Info(op,
		zap.Int("trades", next.Len()),
		zap.Float64("balance", next.CurrentBalance))

	if c.store == nil {
		return
	}
	// The snapshot is already installed; a caller going away must not
	// stop it reaching the store.
	if err := c.store.Save(context.WithoutCancel(ctx), next); err != nil {
		c.log.Warn("save failed", zap.String("op", op), zap.Error(err))
	}
}

func (c *Controller) reject(op string, err error, fields ...zap.Field) error {
	c.log.Debug(op+" rejected", append(fields, zap.Error(err))...)
	return err
}

// AddOrUpdate adds a trade, or updates the trade being edited and leaves
// edit mode. date may be empty.
func (c *Controller) AddOrUpdate(ctx context.Context, profit, date string) error {
	in := ledger.Input{Profit: profit, Date: date}

	if c.editing != "" {
		id := c.editing
		next, err := c.engine.Update(c.ledger, id, in)
		if errors.Is(err, ledger.ErrTradeNotFound) {
			c.editing = ""
		}
		if err != nil {
			return c.reject("update", err, zap.String("id", id))
		}
		c.editing = ""
		c.commit(ctx, "trade updated", next)
		return nil
	}

	next, err := c.engine.Add(c.ledger, in)
	if err != nil {
		return c.reject("add", err)
	}
	c.commit(ctx, "trade added", next)
	return nil
}

// StartEdit makes the next AddOrUpdate edit trade id.
func (c *Controller) StartEdit(id string) error {
	if _, ok := c.ledger.Find(id); !ok {
		return c.reject("edit", ledger.ErrTradeNotFound, zap.String("id", id))
	}
	c.editing = id
	return nil
}

// CancelEdit leaves edit mode.
func (c *Controller) CancelEdit() {
	c.editing = ""
}

// Editing returns the trade being edited, if any.
func (c *Controller) Editing() (ledger.Trade, bool) {
	if c.editing == "" {
		return ledger.Trade{}, false
	}
	return c.ledger.Find(c.editing)
}

// RequestDelete asks for confirmation before deleting trade id.
func (c *Controller) RequestDelete(id string) error {
	if _, ok := c.ledger.Find(id); !ok {
		return c.reject("delete request", ledger.ErrTradeNotFound, zap.String("id", id))
	}
	c.del = c.del.Request(id)
	return nil
}

// CancelDelete drops a pending delete.
func (c *Controller) CancelDelete() {
	c.del = c.del.Cancel()
}

// Cancel handles an escape from the user: it drops any pending delete and
// leaves edit mode.
func (c *Controller) Cancel() {
	c.CancelDelete()
	c.CancelEdit()
}

// DeleteState returns the confirmation state.
func (c *Controller) DeleteState() DeleteState {
	return c.del
}

// ConfirmDelete deletes the trade awaiting confirmation.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	id, next, ok := c.del.Confirm()
	c.del = next
	if !ok {
		return c.reject("delete", ErrNoPendingDelete)
	}

	l, err := c.engine.Delete(c.ledger, id)
	if err != nil {
		return c.reject("delete", err, zap.String("id", id))
	}
	if c.editing == id {
		c.editing = ""
	}
	c.commit(ctx, "trade deleted", l)
	return nil
}

// SetStartingBalance changes the starting balance.
func (c *Controller) SetStartingBalance(ctx context.Context, input string) error {
	next, err := c.engine.SetStartingBalance(c.ledger, input)
	if err != nil {
		return c.reject("starting balance", err, zap.String("input", input))
	}
	c.commit(ctx, "starting balance set", next)
	return nil
}

// Rejection records one input Import skipped.
type Rejection struct {
	Index int
	Input ledger.Input
	Err   error
}

// Import adds every input it can and saves once. Inputs the engine
// rejects are returned, in order.
func (c *Controller) Import(ctx context.Context, inputs []ledger.Input) (added int, rejected []Rejection) {
	l := c.ledger
	for i, in := range inputs {
		next, err := c.engine.Add(l, in)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Input: in, Err: err})
			continue
		}
		l = next
		added++
	}
	if added > 0 {
		c.commit(ctx, "trades imported", l)
	}
	return added, rejected
}
