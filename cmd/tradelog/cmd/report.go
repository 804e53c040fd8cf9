package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/journal"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
	"github.com/andongyersst-spec/trading-journal/stats"
)

func newListCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades in date order with running balances",
		Long: `List trades oldest first. --from and --to limit the listing to an
inclusive range of dates.

Example:
  tradelog list --from 2024-01-01 --to 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				trades, err := between(sc.Ledger(), from, to)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(trades) == 0 {
					fmt.Fprintln(out, "No trades.")
					return nil
				}
				tw := newTable(out)
				fmt.Fprintln(tw, "ID\tDATE\tBALANCE\tPROFIT")
				for _, t := range trades {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, dateOf(t), money(t.Balance), colorPL(t.Profit))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date to list, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date to list, YYYY-MM-DD")
	return cmd
}

// between filters l by an inclusive date range; empty bounds are open.
func between(l ledger.Ledger, from, to string) ([]ledger.Trade, error) {
	if from == "" && to == "" {
		return l.Trades, nil
	}
	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if from != "" {
		d, ok := coerce.Date(from)
		if !ok {
			return nil, fmt.Errorf("--from: %q is not a date", from)
		}
		start = d
	}
	if to != "" {
		d, ok := coerce.Date(to)
		if !ok {
			return nil, fmt.Errorf("--to: %q is not a date", to)
		}
		end = d.AddDate(0, 0, 1)
	}
	return l.Between(start, end), nil
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show balance, win rate and P/L statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				v := sc.View()
				o := v.Overview
				out := cmd.OutOrStdout()

				tw := newTable(out)
				fmt.Fprintf(tw, "Starting balance:\t%s\n", money(o.StartingBalance))
				fmt.Fprintf(tw, "Current balance:\t%s\n", money(o.CurrentBalance))
				fmt.Fprintf(tw, "Net P/L:\t%s\n", colorPL(o.NetPL))
				fmt.Fprintf(tw, "Return:\t%s\n", percent(o.ReturnPct))
				fmt.Fprintf(tw, "Trades:\t%d (%d wins, %d losses)\n", o.Trades, v.Distribution.Wins, v.Distribution.Losses)
				fmt.Fprintf(tw, "Win rate:\t%s\n", percent(v.WinRate))
				fmt.Fprintf(tw, "This month:\t%s\n", percent(v.MonthlyWinRate))
				if o.Trades > 0 {
					fmt.Fprintf(tw, "Avg win / loss:\t%s / %s\n", money(o.AvgWin), money(o.AvgLoss))
					fmt.Fprintf(tw, "Best / worst:\t%s / %s\n", colorPL(o.BestTrade), colorPL(o.WorstTrade))
					fmt.Fprintf(tw, "Max drawdown:\t%s\n", percent(o.MaxDrawdownPct))
					if o.ProfitFactor > 0 {
						fmt.Fprintf(tw, "Profit factor:\t%.2f\n", o.ProfitFactor)
					}
				}
				return tw.Flush()
			})
		},
	}
}

func newMonthlyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show P/L and win rate per calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				months := stats.MonthlySummary(sc.Ledger().Trades)
				out := cmd.OutOrStdout()
				if len(months) == 0 {
					fmt.Fprintln(out, "No trades.")
					return nil
				}
				tw := newTable(out)
				fmt.Fprintln(tw, "MONTH\tTRADES\tWIN %\tP/L")
				for _, m := range months {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.MonthKey, m.TradeCount, percent(m.WinRate), colorPL(m.TotalProfit))
				}
				return tw.Flush()
			})
		},
	}
}

// tradeQuerier is implemented by journals that can answer lookups without
// the whole ledger in memory.
type tradeQuerier interface {
	GetTrade(ctx context.Context, tradeID string) (ledger.Trade, error)
	ListTradesBetween(ctx context.Context, start, end time.Time) ([]ledger.Trade, error)
}

func newJournalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print trades as Org-mode journal entries",
		Long: `Print trades as Org-mode journal entries, ready to paste into notes.

Subcommands:
  trade  - A single trade by ID
  today  - Trades dated today
  day    - Trades dated on a specific day

Examples:
  tradelog journal trade <trade-id>
  tradelog journal today
  tradelog journal day 2024-01-15`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trade <trade-id>",
			Short: "Print a single trade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.journalTrade(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "today",
			Short: "Print trades dated today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.journalDay(cmd, coerce.FormatDate(coerce.Day(a.now())))
			},
		},
		&cobra.Command{
			Use:   "day <YYYY-MM-DD>",
			Short: "Print trades dated on a specific day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.journalDay(cmd, args[0])
			},
		},
	)
	return cmd
}

// journalTrade and journalDay let a querying journal pick the trades but
// always print them from the recomputed ledger, so balances agree with
// list and stats.
func (a *app) journalTrade(cmd *cobra.Command, id string) error {
	sc, store, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if q, ok := store.(tradeQuerier); ok {
		stored, err := q.GetTrade(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get trade: %w", err)
		}
		id = stored.ID
	}
	t, found := sc.Ledger().Find(id)
	if !found {
		return fmt.Errorf("get trade %s: %w", id, ledger.ErrTradeNotFound)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t))
	return nil
}

func (a *app) journalDay(cmd *cobra.Command, day string) error {
	start, ok := coerce.Date(day)
	if !ok {
		return fmt.Errorf("date: %q is not YYYY-MM-DD", day)
	}
	end := start.AddDate(0, 0, 1)

	sc, store, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	l := sc.Ledger()
	trades := l.Between(start, end)
	if q, ok := store.(tradeQuerier); ok {
		stored, err := q.ListTradesBetween(cmd.Context(), start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		trades = nil
		for _, st := range stored {
			if t, found := l.Find(st.ID); found {
				trades = append(trades, t)
			}
		}
	}

	out := cmd.OutOrStdout()
	if len(trades) == 0 {
		fmt.Fprintf(out, "No trades on %s.\n", coerce.FormatDate(start))
		return nil
	}
	fmt.Fprintln(out, journal.FormatTradesOrg(trades))
	return nil
}
