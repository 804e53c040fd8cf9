package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andongyersst-spec/trading-journal/api"
	"github.com/andongyersst-spec/trading-journal/session"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger as a JSON API",
		Long: `Serve the ledger over HTTP until interrupted.

Example:
  tradelog serve --addr 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withSession(cmd, func(sc *session.Controller) error {
				a.log.Info("serving ledger",
					zap.String("journal", a.cfg.Journal.Type),
					zap.String("path", a.cfg.Journal.Path()),
					zap.Int("trades", sc.Ledger().Len()))

				err := api.New(sc, a.log).ListenAndServe(ctx, addr)
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
