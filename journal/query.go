package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

// GetTrade returns a single stored trade by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (ledger.Trade, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT trade_id, trade_date, profit, balance
		FROM trades
		WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Trade{}, fmt.Errorf("trade %q: %w", tradeID, ledger.ErrTradeNotFound)
		}
		return ledger.Trade{}, err
	}
	return t, nil
}

// ListTradesBetween returns stored trades dated within [start, end), in
// ledger order.
func (j *SQLite) ListTradesBetween(ctx context.Context, start, end time.Time) ([]ledger.Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, trade_date, profit, balance
		FROM trades
		WHERE trade_date >= ? AND trade_date < ?
		ORDER BY seq ASC`, coerce.FormatDate(start), coerce.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
