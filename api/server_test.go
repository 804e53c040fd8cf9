package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andongyersst-spec/trading-journal/journal"
	"github.com/andongyersst-spec/trading-journal/ledger"
	"github.com/andongyersst-spec/trading-journal/session"
	"github.com/andongyersst-spec/trading-journal/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *journal.Memory) {
	t.Helper()

	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	n := 0
	engine := ledger.NewEngine(
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithIDs(func() string {
			n++
			return fmt.Sprintf("T%d", n)
		}),
	)
	store := journal.NewMemory()
	sc := session.Open(context.Background(), store, engine, session.WithClock(func() time.Time { return now }))
	return New(sc, nil), store
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) session.View {
	t.Helper()

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v session.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := call(t, s.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestTradeLifecycle(t *testing.T) {
	s, store := newTestServer(t)
	h := s.Handler()

	v := decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"100","date":"2024-01-05"}`))
	assert.Equal(t, 1100.0, v.CurrentBalance)

	// Numbers are accepted as well as strings.
	v = decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":-50,"date":"2024-01-01"}`))
	assert.Equal(t, 1050.0, v.CurrentBalance)
	require.Len(t, v.Ledger.Trades, 2)
	assert.Equal(t, "T2", v.Ledger.Trades[0].ID)

	v = decodeView(t, call(t, h, http.MethodPost, "/trades/T2/delete", ""))
	assert.Equal(t, "T2", v.PendingDelete)

	v = decodeView(t, call(t, h, http.MethodPost, "/delete/confirm", ""))
	assert.Empty(t, v.PendingDelete)
	assert.Equal(t, 1100.0, v.CurrentBalance)

	v = decodeView(t, call(t, h, http.MethodPost, "/trades/T1/edit", ""))
	assert.Equal(t, "T1", v.Editing)

	v = decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"-20"}`))
	assert.Equal(t, 980.0, v.CurrentBalance)
	assert.Equal(t, 0.0, v.WinRate)
	assert.Empty(t, v.Editing)

	v = decodeView(t, call(t, h, http.MethodPut, "/starting-balance", `{"startingBalance":"2000"}`))
	assert.Equal(t, 1980.0, v.CurrentBalance)

	assert.Equal(t, 5, store.Saves())
}

func TestCancelRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"10","date":"2024-01-05"}`))
	decodeView(t, call(t, h, http.MethodPost, "/trades/T1/delete", ""))

	v := decodeView(t, call(t, h, http.MethodPost, "/delete/cancel", ""))
	assert.Empty(t, v.PendingDelete)
	assert.Len(t, v.Ledger.Trades, 1)

	decodeView(t, call(t, h, http.MethodPost, "/trades/T1/edit", ""))
	v = decodeView(t, call(t, h, http.MethodPost, "/edit/cancel", ""))
	assert.Empty(t, v.Editing)
}

func TestRejections(t *testing.T) {
	s, store := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"empty profit", http.MethodPost, "/trades", `{"profit":""}`, http.StatusUnprocessableEntity},
		{"bad json", http.MethodPost, "/trades", `{"profit":`, http.StatusBadRequest},
		{"unknown edit", http.MethodPost, "/trades/nope/edit", "", http.StatusNotFound},
		{"unknown delete", http.MethodPost, "/trades/nope/delete", "", http.StatusNotFound},
		{"nothing to confirm", http.MethodPost, "/delete/confirm", "", http.StatusConflict},
		{"bad balance", http.MethodPut, "/starting-balance", `{"startingBalance":"lots"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}

	assert.Equal(t, 0, store.Saves())
}

func TestStatsAndMonthly(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"10","date":"2024-01-02"}`))
	decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"-5","date":"2024-01-03"}`))

	w := call(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		WinRate        float64            `json:"winRate"`
		MonthlyWinRate float64            `json:"monthlyWinRate"`
		Distribution   stats.Distribution `json:"distribution"`
		CurrentBalance float64            `json:"currentBalance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 50.0, got.WinRate)
	assert.Equal(t, 50.0, got.MonthlyWinRate)
	assert.Equal(t, stats.Distribution{Wins: 1, Losses: 1}, got.Distribution)
	assert.Equal(t, 1005.0, got.CurrentBalance)

	w = call(t, h, http.MethodGet, "/monthly", "")
	require.Equal(t, http.StatusOK, w.Code)
	var months []stats.MonthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &months))
	assert.Equal(t, []stats.MonthSummary{{MonthKey: "2024-01", TotalProfit: 5, TradeCount: 2, WinRate: 50}}, months)

	v := decodeView(t, call(t, h, http.MethodGet, "/ledger", ""))
	assert.Len(t, v.Ledger.Trades, 2)
}

func TestHugeExponentProfitIsCheap(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	start := time.Now()
	v := decodeView(t, call(t, h, http.MethodPost, "/trades", `{"profit":"1e20000000","date":"2024-01-05"}`))
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, v.Ledger.Trades, 1)
	assert.Equal(t, 0.0, v.Ledger.Trades[0].Profit)
	assert.Equal(t, 1000.0, v.CurrentBalance)

	w := call(t, h, http.MethodPut, "/starting-balance", `{"startingBalance":"1e20000000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
