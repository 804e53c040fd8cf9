package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
)

func newAddCmd(a *app) *cobra.Command {
	var profit, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade",
		Long: `Record the profit (negative for a loss) of a trade. The date defaults
to today.

Examples:
  tradelog add --profit 125.50 --date 2024-01-15
  tradelog add -p -40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				before := sc.Ledger()
				if err := sc.AddOrUpdate(cmd.Context(), profit, date); err != nil {
					return fmt.Errorf("add trade: %w", err)
				}
				after := sc.Ledger()

				out := cmd.OutOrStdout()
				if t, ok := newTrade(before, after); ok {
					fmt.Fprintf(out, "✓ Added %s %s (%s)\n", dateOf(t), colorPL(t.Profit), t.ID)
				}
				fmt.Fprintf(out, "  Balance: %s\n", money(after.CurrentBalance))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profit, "profit", "p", "", "profit or loss of the trade (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "trade date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("profit")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var profit, date string

	cmd := &cobra.Command{
		Use:   "edit <trade-id>",
		Short: "Change the profit or date of a trade",
		Long: `Change a recorded trade. Fields left out keep their current value.

Example:
  tradelog edit 01HQZX3J5K --profit -20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				if err := sc.StartEdit(args[0]); err != nil {
					return fmt.Errorf("edit %s: %w", args[0], err)
				}
				t, _ := sc.Editing()
				if !cmd.Flags().Changed("profit") {
					profit = strconv.FormatFloat(t.Profit, 'f', -1, 64)
				}
				if err := sc.AddOrUpdate(cmd.Context(), profit, date); err != nil {
					sc.CancelEdit()
					return fmt.Errorf("edit %s: %w", args[0], err)
				}

				out := cmd.OutOrStdout()
				if t, ok := sc.Ledger().Find(args[0]); ok {
					fmt.Fprintf(out, "✓ Updated %s %s (%s)\n", dateOf(t), colorPL(t.Profit), t.ID)
				}
				fmt.Fprintf(out, "  Balance: %s\n", money(sc.Ledger().CurrentBalance))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&profit, "profit", "p", "", "new profit or loss")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new trade date, YYYY-MM-DD")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade after confirmation",
		Long: `Delete a recorded trade. You are asked to confirm; anything but "y",
end of input or Ctrl-C cancels.

Examples:
  tradelog delete 01HQZX3J5K
  tradelog delete 01HQZX3J5K --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				id := args[0]
				if err := sc.RequestDelete(id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}

				out := cmd.OutOrStdout()
				if !yes {
					t, _ := sc.Ledger().Find(id)
					question := fmt.Sprintf("Delete trade %s %s (%s)?", dateOf(t), signed(t.Profit), t.ID)
					if !confirm(cmd.Context(), cmd.InOrStdin(), out, question) {
						sc.Cancel()
						fmt.Fprintln(out, "Cancelled.")
						return nil
					}
				}

				if err := sc.ConfirmDelete(cmd.Context()); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Fprintf(out, "✓ Deleted %s\n", id)
				fmt.Fprintf(out, "  Balance: %s\n", money(sc.Ledger().CurrentBalance))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [starting-balance]",
		Short: "Show or set the starting balance",
		Long: `Without an argument, print the starting and current balance. With one,
set the starting balance and recompute every running balance.

Example:
  tradelog balance 5000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(sc *session.Controller) error {
				if len(args) == 1 {
					if err := sc.SetStartingBalance(cmd.Context(), args[0]); err != nil {
						return fmt.Errorf("set starting balance: %w", err)
					}
				}
				l := sc.Ledger()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Starting balance: %s\n", money(l.StartingBalance))
				fmt.Fprintf(out, "Current balance:  %s\n", money(l.CurrentBalance))
				fmt.Fprintf(out, "Net P/L:          %s\n", colorPL(l.NetProfit()))
				return nil
			})
		},
	}
}

// newTrade returns the trade present in after but not in before.
func newTrade(before, after ledger.Ledger) (ledger.Trade, bool) {
	for _, t := range after.Trades {
		if _, ok := before.Find(t.ID); !ok {
			return t, true
		}
	}
	return ledger.Trade{}, false
}
