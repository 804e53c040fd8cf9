// Package cmd implements the tradelog command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andongyersst-spec/trading-journal/config"
	"github.com/andongyersst-spec/trading-journal/internal/logging"
	"github.com/andongyersst-spec/trading-journal/journal"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
)

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	noColor    bool
	ephemeral  bool

	cfg *config.Config
	log *zap.Logger
	now func() time.Time
}

func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	cmd := &cobra.Command{
		Use:   "tradelog",
		Short: "A personal P/L trade ledger",
		Long: `tradelog records the profit or loss of each trade you take and keeps a
running account balance, ordered by trade date.

It provides tools for:
  - Adding, editing and deleting trades
  - Win rate, monthly win rate and monthly P/L summaries
  - Importing and exporting CSV, exporting Org-mode reports
  - Serving the ledger as a JSON API`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "Keep the ledger in memory only; nothing is saved")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a.log != nil {
			_ = a.log.Sync()
		}
	}

	cmd.AddCommand(
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newBalanceCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newMonthlyCmd(a),
		newJournalCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. Flags win over the
// config file and environment.
func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Journal.Type = journal.KindSQLite
		cfg.Journal.DBPath = a.dbPath
	}
	if a.ephemeral {
		cfg.Journal.Type = journal.KindMemory
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// open returns a session over the configured journal. The caller closes
// the returned store.
func (a *app) open(ctx context.Context) (*session.Controller, journal.Store, error) {
	store, err := journal.Open(a.cfg.Journal.Type, a.cfg.Journal.Path())
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	engine := ledger.NewEngine(ledger.WithPolicy(a.cfg.EnginePolicy()))
	sc := session.Open(ctx, store, engine,
		session.WithLogger(a.log),
		session.WithClock(a.now),
		session.WithStartingBalance(a.cfg.Ledger.StartingBalance),
	)
	return sc, store, nil
}

// withSession opens a session, runs fn and closes the store.
func (a *app) withSession(cmd *cobra.Command, fn func(*session.Controller) error) error {
	sc, store, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(sc)
}
