package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/kas-tracker/internal/application/service"
	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/db"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/handler"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/kas-tracker/internal/infrastructure/middleware"
	"github.com/damon-houk/kas-tracker/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday of the first week
var now = time.Date(2026, 1, 21, 9, 30, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
	stopOnce sync.Once
	stop     func()
}

// Stop shuts the server down and releases the badger directory
func (s *testServer) Stop() {
	s.stopOnce.Do(s.stop)
}

// startServer wires a badger-backed session in dir behind the full router
func startServer(t *testing.T, dir string) *testServer {
	t.Helper()

	badgerDB, err := db.OpenBadger(dir, false)
	require.NoError(t, err)
	repo := db.NewBadgerBlobRepository(badgerDB)

	cal, err := calendar.New("2026-01-19", time.UTC)
	require.NoError(t, err)

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	clock := mocks.NewFixedClock(now)

	ledger := service.NewLedgerService(repo, cal, clock, service.LedgerConfig{}, log)
	ledger.Load(context.Background())
	session := service.NewSession(ledger, cal, clock, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log))
	handler.NewLedgerHandler(session, log).RegisterRoutes(router)

	ts := &testServer{Server: httptest.NewServer(router)}
	ts.stop = func() {
		ts.Server.Close()
		assert.NoError(t, session.Close(context.Background()))
		assert.NoError(t, repo.Close())
	}
	t.Cleanup(ts.Stop)

	return ts
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestLedgerFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := startServer(t, t.TempDir())

	t.Run("Empty day", func(t *testing.T) {
		resp, data := server.do(t, http.MethodGet, "/ledger", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

		ledger := decode[handler.LedgerResponse](t, data)
		assert.Equal(t, "2026-01-21", ledger.Day.Date)
		assert.Equal(t, 3, ledger.Day.Number)
		assert.Equal(t, "HARI KE-3", ledger.Day.Label)
		assert.Equal(t, "Rabu, 21 Januari 2026", ledger.Day.FormattedDate)
		assert.False(t, ledger.Day.PrevDisabled)
		assert.Equal(t, "Rp 0", ledger.Balance.Formatted)
		assert.Equal(t, "0 TRANSAKSI", ledger.ItemCountLabel)
		assert.Equal(t, handler.EmptyDayMessage, ledger.EmptyMessage)
		assert.NotNil(t, ledger.Items)
	})

	var capitalID int64

	t.Run("Add plain increase", func(t *testing.T) {
		resp, data := server.do(t, http.MethodPost, "/transactions",
			`{"description":"Modal","amount":"100.000","type":"plus"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		added := decode[handler.AddResponse](t, data)
		capitalID = added.Transaction.ID
		assert.Equal(t, "Modal", added.Transaction.Description)
		assert.Equal(t, "+100.000", added.Transaction.Formatted)
		assert.Equal(t, "Pukul 09:30 • KAS", added.Transaction.Meta)
		assert.Equal(t, "Rp 100.000", added.Ledger.Balance.Formatted)
		assert.Equal(t, "1 TRANSAKSI", added.Ledger.ItemCountLabel)
		assert.Empty(t, added.Ledger.EmptyMessage)
	})

	t.Run("Add plain expense with a fractional number amount", func(t *testing.T) {
		resp, data := server.do(t, http.MethodPost, "/transactions",
			`{"description":"Kopi","amount":15000.5,"type":"minus"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		added := decode[handler.AddResponse](t, data)
		assert.Equal(t, "-15.000", added.Transaction.Formatted)
		assert.Equal(t, "negative", string(added.Transaction.Tone))
		assert.Equal(t, "Rp 15.000", added.Ledger.DayExpense.Formatted)
	})

	t.Run("Add profit without a name", func(t *testing.T) {
		resp, data := server.do(t, http.MethodPost, "/transactions/profit",
			`{"name":"","cost":"8.000","sell":"20.000"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		added := decode[handler.AddResponse](t, data)
		assert.Equal(t, "Jualan", added.Transaction.Description)
		assert.Equal(t, "+12.000", added.Transaction.Formatted)
		assert.Equal(t, "M: 8.000 | J: 20.000", added.Transaction.Detail)
		assert.Equal(t, "Pukul 09:30 • PROFIT", added.Transaction.Meta)
	})

	t.Run("Add profit at a loss", func(t *testing.T) {
		resp, data := server.do(t, http.MethodPost, "/transactions/profit",
			`{"name":"Bakso","cost":"20.000","sell":"15.000"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		added := decode[handler.AddResponse](t, data)
		assert.Equal(t, int64(-5000), added.Transaction.Amount)
		assert.Equal(t, "-5.000", added.Transaction.Formatted)

		ledger := added.Ledger
		assert.Equal(t, int64(92000), ledger.Balance.Value)
		assert.Equal(t, "Rp 92.000", ledger.Balance.Formatted)
		assert.Equal(t, int64(112000), ledger.DayIncome.Value)
		assert.Equal(t, int64(20000), ledger.DayExpense.Value)
		assert.Equal(t, int64(92000), ledger.Week.Value)
		assert.Equal(t, "positive", string(ledger.Week.Tone))
		assert.Equal(t, 4, ledger.ItemCount)
	})

	t.Run("Rejected input changes nothing", func(t *testing.T) {
		bodies := map[string]string{
			"/transactions":        `{"description":"Kopi","amount":"0","type":"minus"}`,
			"/transactions/profit": `{"name":"Bakso","cost":"1.000","sell":""}`,
		}
		for path, body := range bodies {
			resp, data := server.do(t, http.MethodPost, path, body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			errResp := decode[handler.ErrorResponse](t, data)
			assert.Equal(t, "Invalid transaction", errResp.Error)
			assert.NotEmpty(t, errResp.RequestID)
		}

		resp, data := server.do(t, http.MethodPost, "/transactions", `{"description":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))

		_, data = server.do(t, http.MethodGet, "/ledger", "")
		assert.Equal(t, 4, decode[handler.LedgerResponse](t, data).ItemCount)
	})

	t.Run("Delete", func(t *testing.T) {
		resp, data := server.do(t, http.MethodDelete, "/transactions/1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, decode[handler.DeleteResponse](t, data).Removed)

		resp, _ = server.do(t, http.MethodDelete, "/transactions/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, data = server.do(t, http.MethodDelete, fmt.Sprintf("/transactions/%d", capitalID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		deleted := decode[handler.DeleteResponse](t, data)
		assert.True(t, deleted.Removed)
		assert.Equal(t, int64(-8000), deleted.Ledger.Balance.Value)
		assert.Equal(t, "- Rp 8.000", deleted.Ledger.Balance.Formatted)
		assert.True(t, deleted.Ledger.BalanceNegative)
		assert.Equal(t, 3, deleted.Ledger.ItemCount)
	})

	t.Run("Navigate", func(t *testing.T) {
		_, data := server.do(t, http.MethodPost, "/focus", `{"offset":-2}`)
		focus := decode[handler.FocusResponse](t, data)
		assert.True(t, focus.Moved)
		assert.Equal(t, 1, focus.Ledger.Day.Number)
		assert.True(t, focus.Ledger.Day.PrevDisabled)
		assert.Equal(t, handler.EmptyDayMessage, focus.Ledger.EmptyMessage)
		assert.Equal(t, int64(-8000), focus.Ledger.Balance.Value)

		_, data = server.do(t, http.MethodPost, "/focus", `{"offset":-1}`)
		focus = decode[handler.FocusResponse](t, data)
		assert.False(t, focus.Moved)
		assert.Equal(t, 1, focus.Ledger.Day.Number)

		_, data = server.do(t, http.MethodPost, "/focus", `{"date":"2026-01-25"}`)
		focus = decode[handler.FocusResponse](t, data)
		assert.True(t, focus.Moved)
		assert.Equal(t, 7, focus.Ledger.Day.Number)

		resp, _ := server.do(t, http.MethodPost, "/focus", `{"date":"25-01-2026"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProfitPreview(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := startServer(t, t.TempDir())

	_, data := server.do(t, http.MethodGet, "/profit/preview?cost=8.000&sell=20.000", "")
	preview := decode[handler.PreviewResponse](t, data)
	assert.True(t, preview.Visible)
	assert.Equal(t, "Rp 12.000", preview.Profit.Formatted)

	_, data = server.do(t, http.MethodGet, "/profit/preview?cost=20.000&sell=15.000", "")
	preview = decode[handler.PreviewResponse](t, data)
	assert.Equal(t, "- Rp 5.000", preview.Profit.Formatted)
	assert.Equal(t, "negative", string(preview.Profit.Tone))

	_, data = server.do(t, http.MethodGet, "/profit/preview", "")
	assert.False(t, decode[handler.PreviewResponse](t, data).Visible)
}

func TestLedgerSurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()

	first := startServer(t, dir)
	resp, _ := first.do(t, http.MethodPost, "/transactions",
		`{"description":"Modal","amount":"50.000","type":"plus"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Release the badger directory lock before reopening
	first.Stop()

	second := startServer(t, dir)
	_, data := second.do(t, http.MethodGet, "/ledger", "")
	ledger := decode[handler.LedgerResponse](t, data)
	assert.Equal(t, int64(50000), ledger.Balance.Value)
	require.Len(t, ledger.Items, 1)
	assert.Equal(t, "Modal", ledger.Items[0].Description)
}
