package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andongyersst-spec/trading-journal/journal"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output, title string
		notes         []string
	)

	cmd := &cobra.Command{
		Use:   "export csv|org",
		Short: "Export the ledger as CSV or an Org-mode report",
		Long: `Write the ledger to stdout or to --output.

  csv - one row per trade: trade_id,date,profit,balance
  org - a report with the summary, monthly P/L and every trade

Examples:
  tradelog export csv -o trades.csv
  tradelog export org --title "Q1 2024" --note "cut losers faster" -o q1.org`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "org"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "csv" && format != "org" {
				return fmt.Errorf("unknown export format %q (want csv or org)", format)
			}

			return a.withSession(cmd, func(sc *session.Controller) error {
				l := sc.Ledger()
				toFile := output != "" && output != "-"

				var err error
				switch {
				case format == "csv" && toFile:
					err = journal.ExportCSV(output, l)
				case format == "csv":
					err = journal.WriteCSV(cmd.OutOrStdout(), l)
				default:
					err = writeReport(cmd.OutOrStdout(), output, toFile, reportOf(title, notes, l, a.now()))
				}
				if err != nil {
					return fmt.Errorf("export %s: %w", format, err)
				}
				if toFile {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", l.Len(), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "report title (org only)")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "note to append to the report, repeatable (org only)")
	return cmd
}

func reportOf(title string, notes []string, l ledger.Ledger, now time.Time) journal.Report {
	r := journal.NewReport(title, l, now)
	r.Notes = notes
	return r
}

func writeReport(stdout io.Writer, path string, toFile bool, r journal.Report) error {
	if !toFile {
		return r.WriteOrg(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteOrg(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add trades from a CSV file",
		Long: `Add every row of a CSV file as a new trade. The header must name
"date" and "profit" columns; other columns are ignored and each trade gets
a fresh ID. Rows that are rejected are reported and skipped.

Example:
  tradelog import trades.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := journal.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			inputs := make([]ledger.Input, len(rows))
			for i, r := range rows {
				inputs[i] = ledger.Input{Profit: r.Profit, Date: r.Date}
			}

			return a.withSession(cmd, func(sc *session.Controller) error {
				added, rejected := sc.Import(cmd.Context(), inputs)

				out := cmd.OutOrStdout()
				for _, r := range rejected {
					fmt.Fprintf(out, "  line %d skipped: %v\n", rows[r.Index].Line, r.Err)
				}
				fmt.Fprintf(out, "✓ Imported %d of %d trades\n", added, len(rows))
				fmt.Fprintf(out, "  Balance: %s\n", money(sc.Ledger().CurrentBalance))
				return nil
			})
		},
	}
}
