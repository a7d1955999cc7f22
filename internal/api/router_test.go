package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendwatch/internal/api/handlers"
	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/watchlist"
	"github.com/wonny/trendwatch/pkg/config"
	"github.com/wonny/trendwatch/pkg/logger"
	"github.com/wonny/trendwatch/pkg/metrics"
)

type fakeService struct {
	tickers    []watchlist.Ticker
	tickersErr error
	snap       *dashboard.Snapshot
	refreshes  int
	latests    int
}

func (f *fakeService) Tickers(ctx context.Context) ([]watchlist.Ticker, error) {
	return f.tickers, f.tickersErr
}

func (f *fakeService) Refresh(ctx context.Context) (*dashboard.Snapshot, error) {
	f.refreshes++
	return f.snap, nil
}

func (f *fakeService) LatestOrRefresh(ctx context.Context) (*dashboard.Snapshot, error) {
	f.latests++
	return f.snap, nil
}

func (f *fakeService) EvaluateOne(ctx context.Context, code string) (*dashboard.Card, error) {
	if f.tickersErr != nil {
		return nil, f.tickersErr
	}
	for _, t := range f.tickers {
		if t.Code == code {
			card := dashboard.NewCard(t, evaluation.Result{Status: evaluation.StatusNoData, Signal: evaluation.SignalNeutral})
			return &card, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", code, dashboard.ErrTickerNotFound)
}

func newFakeService() *fakeService {
	t := watchlist.Ticker{Code: "0050", Name: "元大台灣50", Strategy: watchlist.StrategyLong, Symbol: "0050.TW"}
	return &fakeService{
		tickers: []watchlist.Ticker{t},
		snap: &dashboard.Snapshot{
			ID:          "snap-1",
			GeneratedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Cards: []dashboard.Card{dashboard.NewCard(t, evaluation.Result{
				Status: evaluation.StatusAccumulating, Signal: evaluation.SignalNeutral,
			})},
			Counts: map[string]int{"accumulating": 1},
		},
	}
}

func newTestRouter(svc handlers.CardService, rec *metrics.Recorder) http.Handler {
	log := logger.Nop()
	return NewRouter(handlers.NewCardHandler(svc, log), rec, log)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(newFakeService(), nil), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "trendwatch", body["service"])
}

func TestGetTickers(t *testing.T) {
	rec := do(t, newTestRouter(newFakeService(), nil), http.MethodGet, "/api/tickers")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.TickersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, watchlist.StrategyLong, body.Tickers[0].Strategy)
}

func TestGetTickers_Failure(t *testing.T) {
	svc := newFakeService()
	svc.tickersErr = errors.New("down")

	rec := do(t, newTestRouter(svc, nil), http.MethodGet, "/api/tickers")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.MsgNoTickers)
}

func TestGetCards(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		wantCode      int
		wantRefreshes int
		wantLatests   int
	}{
		{"latest", "/api/cards", http.StatusOK, 0, 1},
		{"forced", "/api/cards?refresh=true", http.StatusOK, 1, 0},
		{"explicit false", "/api/cards?refresh=false", http.StatusOK, 0, 1},
		{"invalid", "/api/cards?refresh=maybe", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			rec := do(t, newTestRouter(svc, nil), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRefreshes, svc.refreshes)
			assert.Equal(t, tt.wantLatests, svc.latests)
		})
	}
}

func TestGetCards_Body(t *testing.T) {
	rec := do(t, newTestRouter(newFakeService(), nil), http.MethodGet, "/api/cards")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "snap-1", body["id"])

	cards := body["cards"].([]interface{})
	require.Len(t, cards, 1)
	card := cards[0].(map[string]interface{})
	assert.Equal(t, "0050", card["code"])
	assert.Equal(t, "accumulating", card["status"], "result fields are inlined")
	assert.Equal(t, dashboard.ClassAccumulating, card["class"])
}

func TestRefresh(t *testing.T) {
	svc := newFakeService()
	router := newTestRouter(svc, nil)

	rec := do(t, router, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.refreshes)

	rec = do(t, router, http.MethodGet, "/api/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetCard(t *testing.T) {
	router := newTestRouter(newFakeService(), nil)

	rec := do(t, router, http.MethodGet, "/api/cards/0050")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"0050"`)

	rec = do(t, router, http.MethodGet, "/api/cards/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	svc := newFakeService()

	rec := do(t, newTestRouter(svc, nil), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code, "no recorder, no endpoint")

	recorder := metrics.New()
	router := newTestRouter(svc, recorder)
	do(t, router, http.MethodGet, "/api/cards/0050")

	rec = do(t, router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(),
		`trendwatch_http_requests_total{method="GET",route="/api/cards/{code}",status="200"} 1`))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestNewServer(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "9090"

	s := New(cfg, logger.Nop(), http.NotFoundHandler())
	assert.Equal(t, ":9090", s.httpServer.Addr)
	assert.Greater(t, s.httpServer.WriteTimeout, cfg.GAS.Timeout)
	assert.NoError(t, s.Shutdown(context.Background()))
}
