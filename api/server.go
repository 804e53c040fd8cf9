// Package api exposes a session over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andongyersst-spec/trading-journal/internal/logging"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
)

// Server serialises HTTP requests onto one session.Controller.
type Server struct {
	mu      sync.Mutex
	session *session.Controller
	logger  *zap.Logger
	started time.Time
}

func New(c *session.Controller, logger *zap.Logger) *Server {
	return &Server{
		session: c,
		logger:  logging.OrNop(logger),
		started: time.Now(),
	}
}

// text accepts a JSON string or number and keeps it as typed, so the
// ledger engine sees the same input a form field would give it.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = text(x)
	case float64:
		*t = text(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		*t = text(b)
	}
	return nil
}

type tradeRequest struct {
	Profit text `json:"profit"`
	Date   text `json:"date"`
}

type balanceRequest struct {
	StartingBalance text `json:"startingBalance"`
}

// Handler returns the gin engine with every route installed.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	s.setupRoutes(r)
	return r
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)

	r.GET("/ledger", s.handleView)
	r.GET("/stats", s.handleStats)
	r.GET("/monthly", s.handleMonthly)

	r.POST("/trades", s.handleAddOrUpdate)
	r.POST("/trades/:id/edit", s.handleStartEdit)
	r.POST("/edit/cancel", s.handleCancelEdit)

	r.POST("/trades/:id/delete", s.handleRequestDelete)
	r.POST("/delete/confirm", s.handleConfirmDelete)
	r.POST("/delete/cancel", s.handleCancelDelete)

	r.PUT("/starting-balance", s.handleStartingBalance)
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Stopping HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

// do runs fn with the session locked and answers with the fresh view, or
// with the error fn returned.
func (s *Server) do(c *gin.Context, fn func(*session.Controller) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.session); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.session.View())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoPendingDelete):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleView(c *gin.Context) {
	s.do(c, func(*session.Controller) error { return nil })
}

func (s *Server) handleStats(c *gin.Context) {
	s.mu.Lock()
	v := s.session.View()
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"winRate":        v.WinRate,
		"monthlyWinRate": v.MonthlyWinRate,
		"distribution":   v.Distribution,
		"currentBalance": v.CurrentBalance,
		"overview":       v.Overview,
	})
}

func (s *Server) handleMonthly(c *gin.Context) {
	s.mu.Lock()
	v := s.session.View()
	s.mu.Unlock()

	c.JSON(http.StatusOK, v.Monthly)
}

func (s *Server) handleAddOrUpdate(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.do(c, func(sc *session.Controller) error {
		return sc.AddOrUpdate(c.Request.Context(), string(req.Profit), string(req.Date))
	})
}

func (s *Server) handleStartEdit(c *gin.Context) {
	id := c.Param("id")
	s.do(c, func(sc *session.Controller) error { return sc.StartEdit(id) })
}

func (s *Server) handleCancelEdit(c *gin.Context) {
	s.do(c, func(sc *session.Controller) error {
		sc.CancelEdit()
		return nil
	})
}

func (s *Server) handleRequestDelete(c *gin.Context) {
	id := c.Param("id")
	s.do(c, func(sc *session.Controller) error { return sc.RequestDelete(id) })
}

func (s *Server) handleConfirmDelete(c *gin.Context) {
	s.do(c, func(sc *session.Controller) error { return sc.ConfirmDelete(c.Request.Context()) })
}

func (s *Server) handleCancelDelete(c *gin.Context) {
	s.do(c, func(sc *session.Controller) error {
		sc.CancelDelete()
		return nil
	})
}

func (s *Server) handleStartingBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.do(c, func(sc *session.Controller) error {
		return sc.SetStartingBalance(c.Request.Context(), string(req.StartingBalance))
	})
}
