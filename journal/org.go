package journal

import (
	"fmt"
	"strings"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/pkg/id"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting
// into a journal. Structured facts go in the PROPERTIES drawer; the
// narrative headings are left for the trader to fill in.
func FormatTradeOrg(t ledger.Trade) string {
	result := "LOSS"
	if t.Win() {
		result = "WIN"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %+.2f (%s)\n", coerce.FormatDate(t.Date), t.Profit, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":DATE: %s\n", coerce.FormatDate(t.Date))
	if created, ok := id.Time(t.ID); ok {
		fmt.Fprintf(&b, ":CREATED: [%s]\n", created.UTC().Format("2006-01-02 Mon 15:04"))
	}
	fmt.Fprintf(&b, ":PROFIT: %.2f\n", t.Profit)
	fmt.Fprintf(&b, ":BALANCE: %.2f\n", t.Balance)
	fmt.Fprintf(&b, ":RESULT: %s\n", result)
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []ledger.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
