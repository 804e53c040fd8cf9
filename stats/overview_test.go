package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andongyersst-spec/trading-journal/ledger"
)

func TestComputeOverview(t *testing.T) {
	t.Parallel()

	l := ledger.Recompute([]ledger.Trade{
		trade("a", day(2024, 1, 1), 100),
		trade("b", day(2024, 1, 2), -50),
		trade("c", day(2024, 1, 3), -150),
		trade("d", day(2024, 2, 1), 300),
		trade("e", day(2024, 2, 2), 0),
	}, 1000)

	o := Compute(l, day(2024, 2, 10))

	assert.Equal(t, 1000.0, o.StartingBalance)
	assert.Equal(t, 1200.0, o.CurrentBalance)
	assert.Equal(t, 5, o.Trades)
	assert.Equal(t, 2, o.Wins)
	assert.Equal(t, 3, o.Losses)
	assert.Equal(t, 40.0, o.WinRate)
	assert.Equal(t, 50.0, o.MonthlyWinRate)
	assert.Equal(t, 200.0, o.NetPL)
	assert.Equal(t, 20.0, o.ReturnPct)
	assert.Equal(t, 400.0, o.GrossProfit)
	assert.Equal(t, 200.0, o.GrossLoss)
	assert.Equal(t, 2.0, o.ProfitFactor)
	assert.Equal(t, 200.0, o.AvgWin)
	assert.Equal(t, -66.67, o.AvgLoss)
	assert.Equal(t, 300.0, o.BestTrade)
	assert.Equal(t, -150.0, o.WorstTrade)

	// Peak 1100 after trade a, trough 900 after trade c.
	assert.Equal(t, 18.18, o.MaxDrawdownPct)
}

func TestComputeEmptyLedger(t *testing.T) {
	t.Parallel()

	o := Compute(ledger.New(), day(2024, 1, 1))
	assert.Equal(t, 0, o.Trades)
	assert.Equal(t, 0.0, o.WinRate)
	assert.Equal(t, 0.0, o.ProfitFactor)
	assert.Equal(t, 0.0, o.MaxDrawdownPct)
	assert.Equal(t, 1000.0, o.CurrentBalance)
}

func TestComputeNoLossesHasZeroProfitFactor(t *testing.T) {
	t.Parallel()

	l := ledger.Recompute([]ledger.Trade{trade("a", day(2024, 1, 1), 10)}, 100)
	o := Compute(l, day(2024, 1, 1))
	assert.Equal(t, 0.0, o.ProfitFactor)
	assert.Equal(t, 10.0, o.ReturnPct)
	assert.Equal(t, 0.0, o.MaxDrawdownPct)
}

func TestMaxDrawdownIgnoresNonPositivePeaks(t *testing.T) {
	t.Parallel()

	l := ledger.Recompute([]ledger.Trade{
		trade("a", day(2024, 1, 1), -10),
		trade("b", day(2024, 1, 2), -10),
	}, 0)
	assert.Equal(t, 0.0, MaxDrawdownPct(l))
}
