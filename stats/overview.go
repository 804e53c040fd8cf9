package stats

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

// Overview is the account-level report shown next to the trade list.
type Overview struct {
	StartingBalance float64 `json:"startingBalance"`
	CurrentBalance  float64 `json:"currentBalance"`

	Trades int `json:"trades"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	WinRate        float64 `json:"winRate"`
	MonthlyWinRate float64 `json:"monthlyWinRate"`

	NetPL       float64 `json:"netPL"`
	ReturnPct   float64 `json:"returnPct"`
	GrossProfit float64 `json:"grossProfit"`
	GrossLoss   float64 `json:"grossLoss"`

	// ProfitFactor is GrossProfit / GrossLoss, or 0 with no losing P/L.
	ProfitFactor float64 `json:"profitFactor"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`

	// MaxDrawdownPct is the deepest peak-to-trough fall of the running
	// balance, as a percentage of the peak.
	MaxDrawdownPct float64 `json:"maxDrawdownPct"`

	BestTrade  float64 `json:"bestTrade"`
	WorstTrade float64 `json:"worstTrade"`
}

// Compute builds an Overview of l. ref selects the month used for
// MonthlyWinRate.
func Compute(l ledger.Ledger, ref time.Time) Overview {
	dist := WinLossDistribution(l.Trades)
	o := Overview{
		StartingBalance: l.StartingBalance,
		CurrentBalance:  l.CurrentBalance,
		Trades:          len(l.Trades),
		Wins:            dist.Wins,
		Losses:          dist.Losses,
		WinRate:         WinRate(l.Trades),
		MonthlyWinRate:  MonthlyWinRate(l.Trades, ref),
		NetPL:           sum(l.Trades),
		MaxDrawdownPct:  MaxDrawdownPct(l),
	}

	gp, gl := decimal.Zero, decimal.Zero
	for i, t := range l.Trades {
		p := decimal.NewFromFloat(t.Profit)
		if t.Profit > 0 {
			gp = gp.Add(p)
		} else {
			gl = gl.Add(p.Neg())
		}
		if i == 0 || t.Profit > o.BestTrade {
			o.BestTrade = t.Profit
		}
		if i == 0 || t.Profit < o.WorstTrade {
			o.WorstTrade = t.Profit
		}
	}
	o.GrossProfit, _ = gp.Float64()
	o.GrossLoss, _ = gl.Float64()

	if gl.IsPositive() {
		o.ProfitFactor = round2(gp.Div(gl))
	}
	if dist.Wins > 0 {
		o.AvgWin = round2(gp.Div(decimal.NewFromInt(int64(dist.Wins))))
	}
	if dist.Losses > 0 {
		o.AvgLoss = round2(gl.Neg().Div(decimal.NewFromInt(int64(dist.Losses))))
	}
	if l.StartingBalance != 0 {
		o.ReturnPct = round2(decimal.NewFromFloat(o.NetPL).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromFloat(math.Abs(l.StartingBalance))))
	}

	return o
}

// MaxDrawdownPct walks the balance curve, starting at the starting
// balance, and returns the largest percentage fall from a running peak.
// Peaks at or below zero are ignored.
func MaxDrawdownPct(l ledger.Ledger) float64 {
	peak := l.StartingBalance
	worst := 0.0
	for _, t := range l.Trades {
		if t.Balance > peak {
			peak = t.Balance
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - t.Balance) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return round2(decimal.NewFromFloat(worst))
}
