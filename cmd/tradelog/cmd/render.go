package cmd

import (
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

var printer = message.NewPrinter(language.English)

// money formats v with two decimals and thousands separators.
func money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func signed(v float64) string {
	if v > 0 {
		return "+" + money(v)
	}
	return money(v)
}

func percent(v float64) string {
	return printer.Sprintf("%.2f", v) + "%"
}

// colorPL renders a profit green, a loss red and zero plain.
func colorPL(v float64) string {
	switch {
	case v > 0:
		return color.GreenString(signed(v))
	case v < 0:
		return color.RedString(signed(v))
	default:
		return signed(v)
	}
}

func dateOf(t ledger.Trade) string {
	if t.Date.IsZero() {
		return "----------"
	}
	return coerce.FormatDate(t.Date)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
