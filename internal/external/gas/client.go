package gas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/watchlist"
	"github.com/wonny/trendwatch/pkg/httputil"
	"github.com/wonny/trendwatch/pkg/logger"
)

// Messages carried by provider errors and in-band upstream failures.
const (
	MsgMissingEndpoint = "請設定 GAS_ENDPOINT"
	MsgMissingSeries   = "Missing timestamp/close"
	MsgNoTickers       = "無法取得標的清單"
	MsgUnsupported     = "不支援（Yahoo 無此代碼）"
)

var placeholderMarkers = []string{"REPLACE_WITH_YOUR_DEPLOYMENT", "SET_YOUR_GAS_DEPLOYMENT"}

// Client handles communication with the Apps Script web app that serves
// the watch-list and per-symbol daily closes.
// ⭐ SSOT: GAS 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	endpoint   string
}

// NewClient creates a new provider client for endpoint.
func NewClient(endpoint string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		endpoint:   strings.TrimSpace(endpoint),
	}
}

// IsPlaceholderEndpoint reports whether endpoint has not been configured.
func IsPlaceholderEndpoint(endpoint string) bool {
	if strings.TrimSpace(endpoint) == "" {
		return true
	}
	for _, m := range placeholderMarkers {
		if strings.Contains(endpoint, m) {
			return true
		}
	}
	return false
}

type tickersPayload struct {
	Tickers []watchlist.RawTicker `json:"tickers"`
	Error   string                `json:"error"`
}

// FetchTickers fetches the remote watch-list.
func (c *Client) FetchTickers(ctx context.Context) ([]watchlist.RawTicker, error) {
	body, err := c.get(ctx, url.Values{"action": {"tickers"}})
	if err != nil {
		return nil, err
	}

	var payload tickersPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindMissingFields, Message: MsgNoTickers, Err: err}
	}
	if payload.Error != "" {
		return nil, &Error{Kind: KindUpstream, Message: payload.Error}
	}
	if len(payload.Tickers) == 0 {
		return nil, &Error{Kind: KindMissingFields, Message: MsgNoTickers}
	}

	c.logger.WithField("count", len(payload.Tickers)).Debug("Fetched tickers")
	return payload.Tickers, nil
}

type quotePayload struct {
	Status          json.RawMessage `json:"status"`
	Close           []*float64      `json:"close"`
	Timestamp       []int64         `json:"timestamp"`
	Error           string          `json:"error"`
	Source          string          `json:"source"`
	LastTradingDate string          `json:"lastTradingDate"`
	LastTimestamp   *int64          `json:"lastTimestamp"`
}

// FetchQuote fetches the daily close series for a provider symbol.
//
// Upstream domain failures (an "error" field in the payload) are returned
// in-band as a quote with status "error" so they surface as evaluation results.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*evaluation.RawQuote, error) {
	body, err := c.get(ctx, url.Values{"symbol": {symbol}})
	if err != nil {
		return nil, err
	}

	q, err := parseQuote(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"status": q.Status,
		"count":  len(q.Close),
	}).Debug("Fetched quote")
	return q, nil
}

// parseQuote converts a provider payload into a RawQuote.
func parseQuote(body []byte) (*evaluation.RawQuote, error) {
	var p quotePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &Error{Kind: KindMissingFields, Message: "invalid quote payload", Err: err}
	}

	status, code := decodeStatus(p.Status)

	q := &evaluation.RawQuote{
		Status:          status,
		Close:           p.Close,
		Timestamp:       p.Timestamp,
		Source:          p.Source,
		LastTradingDate: p.LastTradingDate,
		LastTimestamp:   p.LastTimestamp,
	}

	if status == evaluation.QuoteStatusNoData {
		return q, nil
	}

	if p.Error != "" {
		q.Status = evaluation.QuoteStatusError
		q.Error = p.Error
		if code == http.StatusNotFound {
			q.Error = MsgUnsupported
		}
		return q, nil
	}

	// Older deployments omit status on success.
	if status == "" {
		q.Status = evaluation.QuoteStatusOK
	}

	if q.Status == evaluation.QuoteStatusOK && (p.Close == nil || p.Timestamp == nil) {
		return nil, &Error{Kind: KindMissingFields, Message: MsgMissingSeries}
	}

	return q, nil
}

// decodeStatus accepts either a status word or a numeric upstream code.
func decodeStatus(raw json.RawMessage) (string, int) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, 0
	}

	var code int
	if err := json.Unmarshal(raw, &code); err == nil {
		return "", code
	}
	return "", 0
}

// get performs a GET against the endpoint with params and returns the body.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if IsPlaceholderEndpoint(c.endpoint) {
		return nil, &Error{Kind: KindMissingEndpoint, Message: MsgMissingEndpoint}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &Error{Kind: KindMissingEndpoint, Message: "invalid GAS_ENDPOINT", Err: err}
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	resp, err := c.httpClient.Get(ctx, u.String())
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "無法取得資料", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to read response body", Err: err}
	}
	return body, nil
}
