// Package journal persists ledger state. A Store loads the last saved
// ledger at startup and is handed every committed snapshot afterwards.
package journal

import (
	"context"
	"fmt"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

// State is what a Store holds: the trades, the starting balance they run
// from, and the balance last shown to the user.
type State struct {
	StartingBalance float64
	CurrentBalance  float64
	Trades          []ledger.Trade
}

// Ledger rebuilds a consistent ledger from s. Stored balances are
// discarded and recomputed.
func (s State) Ledger() ledger.Ledger {
	return ledger.Recompute(s.Trades, s.StartingBalance)
}

// StateOf captures l for saving.
func StateOf(l ledger.Ledger) State {
	return State{
		StartingBalance: l.StartingBalance,
		CurrentBalance:  l.CurrentBalance,
		Trades:          l.Trades,
	}
}

// Store is durable ledger storage. Load returns (nil, nil) when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, l ledger.Ledger) error
	Close() error
}

// Store kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
	KindMemory = "memory"
)

// Open returns the Store of the given kind at path.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindSQLite:
		return NewSQLite(path)
	case KindFile:
		return NewFile(path)
	case KindMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown journal type %q", kind)
}
