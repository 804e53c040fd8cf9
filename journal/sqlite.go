package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

// SQLite stores the ledger in a SQLite database. Each Save replaces the
// stored trades wholesale inside one transaction.
//
// A file that is not a usable database still opens: Load and Save report
// the problem instead, so callers fall back to a fresh ledger and the file
// itself is left untouched.
type SQLite struct {
	db      *sql.DB
	mu      sync.Mutex
	initErr error
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	j := &SQLite{db: db}
	_, j.initErr = db.Exec(Schema)
	return j, nil
}

// ready creates the schema if an earlier attempt failed.
func (j *SQLite) ready(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.initErr != nil {
		if _, err := j.db.ExecContext(ctx, Schema); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		j.initErr = nil
	}
	return nil
}

func (j *SQLite) Load(ctx context.Context) (*State, error) {
	if err := j.ready(ctx); err != nil {
		return nil, err
	}

	settings, err := j.settings(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, trade_date, profit, balance
		FROM trades
		ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []ledger.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	start, hasStart := settings[keyStartingBalance]
	if !hasStart && len(trades) == 0 {
		return nil, nil
	}

	st := &State{
		StartingBalance: ledger.DefaultStartingBalance,
		CurrentBalance:  coerce.Float(settings[keyCurrentBalance]),
		Trades:          trades,
	}
	if hasStart {
		st.StartingBalance = coerce.Float(start)
	}
	return st, nil
}

func (j *SQLite) Save(ctx context.Context, l ledger.Ledger) (err error) {
	if err = j.ready(ctx); err != nil {
		return err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(trade_id, trade_date, profit, balance, seq)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range l.Trades {
		if _, err = stmt.ExecContext(ctx, t.ID, coerce.FormatDate(t.Date), t.Profit, t.Balance, i); err != nil {
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}

	for key, v := range map[string]float64{
		keyStartingBalance: l.StartingBalance,
		keyCurrentBalance:  l.CurrentBalance,
	} {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) settings(ctx context.Context) (map[string]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTrade reads one trades row. Values that do not parse coerce rather
// than fail the whole load.
func scanTrade(s scanner) (ledger.Trade, error) {
	var (
		id      string
		date    sql.NullString
		profit  any
		balance any
	)
	if err := s.Scan(&id, &date, &profit, &balance); err != nil {
		return ledger.Trade{}, err
	}
	return ledger.Trade{
		ID:      id,
		Date:    coerce.DateOrZero(date.String),
		Profit:  coerce.Float(profit),
		Balance: coerce.Float(balance),
	}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
