package journal

import (
	"context"
	"slices"
	"sync"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

// Memory keeps the last saved ledger in process. Nothing survives exit.
type Memory struct {
	mu    sync.RWMutex
	state *State
	saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, nil
	}
	st := *m.state
	st.Trades = slices.Clone(st.Trades)
	return &st, nil
}

func (m *Memory) Save(ctx context.Context, l ledger.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := StateOf(l)
	st.Trades = slices.Clone(st.Trades)
	m.state = &st
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *Memory) Close() error {
	return nil
}
