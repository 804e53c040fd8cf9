package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleLedger() ledger.Ledger {
	return ledger.Recompute([]ledger.Trade{
		{ID: "T2", Date: day(2024, 1, 5), Profit: 100},
		{ID: "T1", Date: day(2024, 1, 1), Profit: -50.25},
		{ID: "T3", Date: day(2024, 2, 10), Profit: 0},
	}, 1500)
}

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','settings')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["settings"])
}

func TestSQLiteLoadEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	st, err := j.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)

	l := sampleLedger()
	require.NoError(t, j.Save(ctx, l))
	require.NoError(t, j.Close())

	// Reopen to prove the data hit disk.
	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	st, err := j2.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)

	assert.Equal(t, 1500.0, st.StartingBalance)
	assert.Equal(t, l.CurrentBalance, st.CurrentBalance)
	assert.Equal(t, l.Trades, st.Trades)
	assert.Equal(t, l, st.Ledger())
}

func TestSQLiteSaveReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, sampleLedger()))

	smaller := ledger.Recompute([]ledger.Trade{{ID: "T9", Date: day(2024, 3, 1), Profit: 5}}, 10)
	require.NoError(t, j.Save(ctx, smaller))

	st, err := j.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Trades, 1)
	assert.Equal(t, "T9", st.Trades[0].ID)
	assert.Equal(t, 10.0, st.StartingBalance)
	assert.Equal(t, 15.0, st.CurrentBalance)
}

func TestSQLiteSaveEmptyLedgerKeepsStartingBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, ledger.Recompute(nil, 2500)))

	st, err := j.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 2500.0, st.StartingBalance)
	assert.Empty(t, st.Trades)
}

func TestSQLiteMalformedRowsCoerce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO trades (trade_id, trade_date, profit, balance, seq)
		VALUES ('bad', 'not-a-date', 'abc', 'xyz', 0),
		       ('good', '2024-01-02', 12.5, 0, 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO settings (key, value) VALUES ('starting_balance', '200')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	st, err := j2.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Trades, 2)

	assert.True(t, st.Trades[0].Date.IsZero())
	assert.Equal(t, 0.0, st.Trades[0].Profit)

	l := st.Ledger()
	assert.Equal(t, 212.5, l.CurrentBalance)
}

func TestGetTrade(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, sampleLedger()))

	tr, err := j.GetTrade(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 5), tr.Date)
	assert.InDelta(t, 100.0, tr.Profit, 1e-9)
	assert.InDelta(t, 1549.75, tr.Balance, 1e-9)

	_, err = j.GetTrade(ctx, "nonexistent")
	assert.ErrorIs(t, err, ledger.ErrTradeNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, sampleLedger()))

	jan, err := j.ListTradesBetween(ctx, day(2024, 1, 1), day(2024, 2, 1))
	require.NoError(t, err)
	require.Len(t, jan, 2)
	assert.Equal(t, "T1", jan[0].ID)
	assert.Equal(t, "T2", jan[1].ID)

	none, err := j.ListTradesBetween(ctx, day(2025, 1, 1), day(2025, 2, 1))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteCorruptFileIsLeftAlone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.db")
	garbage := []byte(strings.Repeat("this is not a sqlite database\n", 64))
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	st, err := j.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, st)

	assert.Error(t, j.Save(context.Background(), sampleLedger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}
