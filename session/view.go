package session

import (
	"time"

	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/stats"
)

// View is everything a front end renders after a mutation.
type View struct {
	Ledger         ledger.Ledger        `json:"ledger"`
	CurrentBalance float64              `json:"currentBalance"`
	WinRate        float64              `json:"winRate"`
	MonthlyWinRate float64              `json:"monthlyWinRate"`
	Distribution   stats.Distribution   `json:"distribution"`
	Monthly        []stats.MonthSummary `json:"monthly"`
	Overview       stats.Overview       `json:"overview"`

	PendingDelete string `json:"pendingDelete,omitempty"`
	Editing       string `json:"editing,omitempty"`
}

// Derive computes the read-only view of l. The monthly win rate is for
// the month containing now.
func Derive(l ledger.Ledger, now time.Time) View {
	return View{
		Ledger:         l,
		CurrentBalance: l.CurrentBalance,
		WinRate:        stats.WinRate(l.Trades),
		MonthlyWinRate: stats.MonthlyWinRate(l.Trades, now),
		Distribution:   stats.WinLossDistribution(l.Trades),
		Monthly:        stats.MonthlySummary(l.Trades),
		Overview:       stats.Compute(l, now),
	}
}
