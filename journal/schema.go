package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	trade_date TEXT NOT NULL,
	profit REAL NOT NULL,
	balance REAL NOT NULL,
	seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	keyStartingBalance = "starting_balance"
	keyCurrentBalance  = "current_balance"
)
