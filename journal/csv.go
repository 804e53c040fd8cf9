package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

var csvHeader = []string{"trade_id", "date", "profit", "balance"}

// WriteCSV writes the ledger's trades, in ledger order, with a header row.
func WriteCSV(w io.Writer, l ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range l.Trades {
		err := cw.Write([]string{
			t.ID,
			coerce.FormatDate(t.Date),
			f(t.Profit),
			f(t.Balance),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the ledger to a new file at path.
func ExportCSV(path string, l ledger.Ledger) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, l); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// ImportRow is one trade read from a CSV file, left as text so the ledger
// engine applies its own input policy.
type ImportRow struct {
	Line   int
	ID     string
	Date   string
	Profit string
}

// ReadCSV reads trades from CSV. The header must name "date" and "profit"
// columns; "trade_id" (or "id") is optional and other columns are ignored.
// UTF-8 and UTF-16 input with a byte order mark are both accepted.
func ReadCSV(r io.Reader) ([]ImportRow, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty input")
	}
	if err != nil {
		return nil, err
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, okDate := col["date"]
	profitCol, okProfit := col["profit"]
	if !okDate || !okProfit {
		return nil, fmt.Errorf("csv: header must include date and profit, got %v", header)
	}
	idCol, okID := col["trade_id"]
	if !okID {
		idCol, okID = col["id"]
	}

	var out []ImportRow
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		row := ImportRow{
			Line:   line,
			Date:   field(rec, dateCol),
			Profit: field(rec, profitCol),
		}
		if okID {
			row.ID = field(rec, idCol)
		}
		if row.Date == "" && row.Profit == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
