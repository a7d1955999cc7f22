package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/internal/watchlist"
	"github.com/wonny/trendwatch/pkg/logger"
)

// CardService is the part of dashboard.Service the handlers use.
type CardService interface {
	Tickers(ctx context.Context) ([]watchlist.Ticker, error)
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
	LatestOrRefresh(ctx context.Context) (*dashboard.Snapshot, error)
	EvaluateOne(ctx context.Context, code string) (*dashboard.Card, error)
}

// CardHandler serves watch-list cards.
// ⭐ SSOT: 카드 API 핸들러는 이 구조체에서만
type CardHandler struct {
	service CardService
	logger  *logger.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(service CardService, log *logger.Logger) *CardHandler {
	return &CardHandler{
		service: service,
		logger:  log,
	}
}

// TickersResponse lists the watch-list.
type TickersResponse struct {
	Tickers []watchlist.Ticker `json:"tickers"`
	Count   int                `json:"count"`
}

// GetTickers returns the normalized watch-list
// GET /api/tickers
func (h *CardHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.service.Tickers(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load tickers")
		respondError(w, http.StatusBadGateway, dashboard.MsgNoTickers)
		return
	}

	respondJSON(w, http.StatusOK, TickersResponse{Tickers: tickers, Count: len(tickers)})
}

// GetCards returns the latest snapshot
// GET /api/cards?refresh=true
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	refresh := false
	if v := r.URL.Query().Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'refresh' parameter (expected true or false)")
			return
		}
		refresh = b
	}

	var (
		snap *dashboard.Snapshot
		err  error
	)
	if refresh {
		snap, err = h.service.Refresh(r.Context())
	} else {
		snap, err = h.service.LatestOrRefresh(r.Context())
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to build snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to build snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// Refresh forces a new snapshot
// POST /api/refresh
func (h *CardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Refresh failed")
		respondError(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// GetCard evaluates one watch-list entry
// GET /api/cards/{code}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	card, err := h.service.EvaluateOne(r.Context(), code)
	switch {
	case errors.Is(err, dashboard.ErrTickerNotFound):
		respondError(w, http.StatusNotFound, "Ticker not found: "+code)
		return
	case err != nil:
		h.logger.WithError(err).WithField("code", code).Error("Failed to evaluate ticker")
		respondError(w, http.StatusBadGateway, dashboard.MsgNoTickers)
		return
	}

	respondJSON(w, http.StatusOK, card)
}
