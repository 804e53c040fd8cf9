package journal

import (
	"io"
	"text/template"
	"time"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/stats"
)

// Report is everything the Org ledger report prints.
type Report struct {
	Title    string
	Created  time.Time
	Overview stats.Overview
	Months   []stats.MonthSummary
	Trades   []ledger.Trade
	Notes    []string
}

// NewReport derives a Report from l as of now.
func NewReport(title string, l ledger.Ledger, now time.Time) Report {
	return Report{
		Title:    title,
		Created:  now,
		Overview: stats.Compute(l, now),
		Months:   stats.MonthlySummary(l.Trades),
		Trades:   l.Trades,
	}
}

var reportOrgFuncs = template.FuncMap{
	"date": coerce.FormatDate,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"result": func(t ledger.Trade) string {
		if t.Win() {
			return "WIN"
		}
		return "LOSS"
	},
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders r as an Org-mode document.
func (r Report) WriteOrg(w io.Writer) error {
	return reportOrg.Execute(w, r)
}

const ReportOrgTemplate = `* TRADE LOG: {{if .Title}}{{.Title}}{{else}}(untitled){{end}}
:PROPERTIES:
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:START_BAL:   {{printf "%.2f" .Overview.StartingBalance}}
:END_BAL:     {{printf "%.2f" .Overview.CurrentBalance}}
:NET_PL:      {{printf "%.2f" .Overview.NetPL}}
:RETURN_PCT:  {{printf "%.2f" .Overview.ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Overview.MaxDrawdownPct}}
:TRADES:      {{.Overview.Trades}}
:WINS:        {{.Overview.Wins}}
:LOSSES:      {{.Overview.Losses}}
:WIN_RATE:    {{printf "%.2f" .Overview.WinRate}}
:PROFIT_FAC:  {{if ne .Overview.ProfitFactor 0.0}}{{printf "%.2f" .Overview.ProfitFactor}}{{else}}(no losses){{end}}
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .Overview.NetPL}}*
- Return:           *{{printf "%.2f" .Overview.ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .Overview.MaxDrawdownPct}}%*
- Win Rate:         *{{printf "%.2f" .Overview.WinRate}}%*
- This Month:       *{{printf "%.2f" .Overview.MonthlyWinRate}}%*
- Avg Win / Loss:   *{{printf "%.2f" .Overview.AvgWin}} / {{printf "%.2f" .Overview.AvgLoss}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Overview.Wins}} |
| Losses  | {{.Overview.Losses}} |
| Total   | {{.Overview.Trades}} |

** Monthly P/L
| Month | Trades | P/L | Win % |
|-------+--------+-----+-------|
{{- range .Months }}
| {{.MonthKey}} | {{.TradeCount}} | {{printf "%.2f" .TotalProfit}} | {{printf "%.2f" .WinRate}} |
{{- end }}

** Trades
| Date | Profit | Balance | Result | ID |
|------+--------+---------+--------+----|
{{- range .Trades }}
| {{date .Date}} | {{printf "%.2f" .Profit}} | {{printf "%.2f" .Balance}} | {{result .}} | {{.ID}} |
{{- end }}

{{- if .Notes }}

** Notes
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
