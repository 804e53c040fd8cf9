// Package stats derives read-only performance figures from ledger
// snapshots. Nothing here mutates its input.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

// Distribution counts winners and losers. Break-even trades are losses.
type Distribution struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Total is Wins + Losses.
func (d Distribution) Total() int {
	return d.Wins + d.Losses
}

// MonthSummary aggregates the trades of one calendar month.
type MonthSummary struct {
	MonthKey    string  `json:"monthKey"`
	TotalProfit float64 `json:"totalProfit"`
	TradeCount  int     `json:"tradeCount"`
	WinRate     float64 `json:"winRate"`
}

// WinRate is the percentage of trades with strictly positive profit,
// rounded to two decimals. An empty population has a win rate of 0.
func WinRate(trades []ledger.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	d := WinLossDistribution(trades)
	return percent(d.Wins, len(trades))
}

// MonthlyWinRate is WinRate restricted to the calendar month of ref.
func MonthlyWinRate(trades []ledger.Trade, ref time.Time) float64 {
	y, m, _ := ref.Date()
	var in []ledger.Trade
	for _, t := range trades {
		ty, tm, _ := t.Date.Date()
		if ty == y && tm == m {
			in = append(in, t)
		}
	}
	return WinRate(in)
}

// WinLossDistribution counts wins (profit > 0) and losses (profit <= 0).
func WinLossDistribution(trades []ledger.Trade) Distribution {
	var d Distribution
	for _, t := range trades {
		if t.Win() {
			d.Wins++
		} else {
			d.Losses++
		}
	}
	return d
}

// MonthKey formats the calendar month of t as YYYY-MM.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// MonthlySummary groups trades by calendar month, oldest month first.
func MonthlySummary(trades []ledger.Trade) []MonthSummary {
	groups := make(map[string][]ledger.Trade)
	for _, t := range trades {
		k := MonthKey(t.Date)
		groups[k] = append(groups[k], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// Zero-padded YYYY-MM keys sort chronologically as strings.
	sort.Strings(keys)

	out := make([]MonthSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, MonthSummary{
			MonthKey:    k,
			TotalProfit: sum(g),
			TradeCount:  len(g),
			WinRate:     WinRate(g),
		})
	}
	return out
}

// sum adds profits in decimal so cent amounts do not pick up float noise.
func sum(trades []ledger.Trade) float64 {
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(decimal.NewFromFloat(t.Profit))
	}
	f, _ := total.Float64()
	return f
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return round2(decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(of))))
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
