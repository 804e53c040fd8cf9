package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

/*
File layout

A single key-value document with three keys:

	trades:          [{id, date, profit, balance}, ...]
	currentBalance:  number
	startingBalance: number

YAML when the path ends in .yaml or .yml, JSON otherwise. Dates are
YYYY-MM-DD. Numbers may be stored as numbers or numeric strings; anything
else reads back as 0. The whole document is rewritten on every Save.
*/

// File stores the ledger as one YAML or JSON document.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file journal: path is required")
	}
	return &File{path: path}, nil
}

type fileDoc struct {
	Trades          []fileTrade `json:"trades" yaml:"trades"`
	CurrentBalance  number      `json:"currentBalance" yaml:"currentBalance"`
	StartingBalance *number     `json:"startingBalance,omitempty" yaml:"startingBalance,omitempty"`
}

type fileTrade struct {
	ID      string `json:"id" yaml:"id"`
	Date    string `json:"date" yaml:"date"`
	Profit  number `json:"profit" yaml:"profit"`
	Balance number `json:"balance" yaml:"balance"`
}

// number decodes from a number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(coerce.Float(v))
	return nil
}

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*n = number(coerce.Float(v))
	return nil
}

func (j *File) yaml() bool {
	ext := strings.ToLower(filepath.Ext(j.path))
	return ext == ".yaml" || ext == ".yml"
}

func (j *File) Load(ctx context.Context) (*State, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var doc fileDoc
	if j.yaml() {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.path, err)
	}

	st := &State{
		StartingBalance: ledger.DefaultStartingBalance,
		CurrentBalance:  float64(doc.CurrentBalance),
	}
	if doc.StartingBalance != nil {
		st.StartingBalance = float64(*doc.StartingBalance)
	}
	for _, t := range doc.Trades {
		st.Trades = append(st.Trades, ledger.Trade{
			ID:      t.ID,
			Date:    coerce.DateOrZero(t.Date),
			Profit:  float64(t.Profit),
			Balance: float64(t.Balance),
		})
	}
	return st, nil
}

func (j *File) Save(ctx context.Context, l ledger.Ledger) error {
	start := number(l.StartingBalance)
	doc := fileDoc{
		Trades:          make([]fileTrade, 0, len(l.Trades)),
		CurrentBalance:  number(l.CurrentBalance),
		StartingBalance: &start,
	}
	for _, t := range l.Trades {
		doc.Trades = append(doc.Trades, fileTrade{
			ID:      t.ID,
			Date:    coerce.FormatDate(t.Date),
			Profit:  number(t.Profit),
			Balance: number(t.Balance),
		})
	}

	var (
		data []byte
		err  error
	)
	if j.yaml() {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return atomicWrite(j.path, data)
}

func (j *File) Close() error {
	return nil
}

// atomicWrite replaces path with data via a temp file in the same
// directory, so a crash mid-write leaves the previous document intact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
