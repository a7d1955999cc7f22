package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/quotecache"
	"github.com/wonny/trendwatch/internal/watchlist"
	"github.com/wonny/trendwatch/pkg/logger"
	"github.com/wonny/trendwatch/pkg/metrics"
)

// Provider supplies the watch-list and raw quotes.
type Provider interface {
	FetchTickers(ctx context.Context) ([]watchlist.RawTicker, error)
	FetchQuote(ctx context.Context, symbol string) (*evaluation.RawQuote, error)
}

// Options configures a Service.
type Options struct {
	// Concurrency bounds in-flight quote fetches during a refresh.
	Concurrency int
	// Fallback is used when the remote watch-list cannot be fetched.
	Fallback []watchlist.RawTicker
	// Overrides pins strategies for codes that arrive without one.
	Overrides watchlist.Overrides
}

// Service fetches, evaluates and publishes watch-list snapshots.
// ⭐ SSOT: 카드 생성은 이 서비스에서만
type Service struct {
	provider  Provider
	cache     quotecache.Store
	evaluator *evaluation.Evaluator
	metrics   *metrics.Recorder
	logger    *logger.Logger
	opts      Options
	now       func() time.Time

	mu     sync.RWMutex
	latest *Snapshot
}

// NewService creates a new refresh service. cache and rec may be nil.
func NewService(
	provider Provider,
	cache quotecache.Store,
	evaluator *evaluation.Evaluator,
	rec *metrics.Recorder,
	opts Options,
	log *logger.Logger,
) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Service{
		provider:  provider,
		cache:     cache,
		evaluator: evaluator,
		metrics:   rec,
		logger:    log.WithField("module", "dashboard"),
		opts:      opts,
		now:       time.Now,
	}
}

// Tickers returns the normalized watch-list, falling back to the seed list
// when the provider fails.
func (s *Service) Tickers(ctx context.Context) ([]watchlist.Ticker, error) {
	raw, err := s.provider.FetchTickers(ctx)
	if err != nil {
		kind := errorKind(err)
		s.metrics.RecordFetchError(kind)
		if len(s.opts.Fallback) == 0 {
			return nil, fmt.Errorf("fetch tickers: %w", err)
		}
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"fallback": len(s.opts.Fallback),
			"kind":     kind,
		}).Warn("Remote watch-list unavailable, using seed list")
		raw = s.opts.Fallback
	}

	tickers, err := watchlist.Normalize(raw, s.opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("normalize tickers: %w", err)
	}
	return tickers, nil
}

// Refresh evaluates the whole watch-list and publishes the snapshot.
// A watch-list failure is reported in Snapshot.Error, not as an error.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	start := s.now()

	tickers, err := s.Tickers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load watch-list")
		snap := s.newSnapshot(nil)
		snap.Error = MsgNoTickers
		s.publish(snap)
		return snap, nil
	}

	cards := make([]Card, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, t := range tickers {
		i, t := i, t
		g.Go(func() error {
			cards[i] = s.evaluateTicker(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	snap := s.newSnapshot(cards)
	s.publish(snap)

	s.metrics.RecordLatency("refresh", s.now().Sub(start))
	s.logger.WithFields(map[string]interface{}{
		"snapshot": snap.ID,
		"cards":    len(cards),
		"counts":   snap.Counts,
	}).Info("Watch-list refreshed")

	return snap, nil
}

// Latest returns the last published snapshot, or nil before the first refresh.
func (s *Service) Latest() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// LatestOrRefresh returns the last snapshot, refreshing first when there is none.
func (s *Service) LatestOrRefresh(ctx context.Context) (*Snapshot, error) {
	if snap := s.Latest(); snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// EvaluateOne evaluates a single watch-list entry by code.
func (s *Service) EvaluateOne(ctx context.Context, code string) (*Card, error) {
	tickers, err := s.Tickers(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range tickers {
		if t.Code == code {
			card := s.evaluateTicker(ctx, t)
			return &card, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", code, ErrTickerNotFound)
}

// CleanCache drops expired cached quotes.
func (s *Service) CleanCache() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.CleanExpired()
}

func (s *Service) evaluateTicker(ctx context.Context, t watchlist.Ticker) Card {
	q, err := s.fetchQuote(ctx, t.Symbol)
	if err != nil {
		text, reason := describeError(err)
		s.metrics.RecordFetchError(errorKind(err))
		s.logger.WithError(err).WithField("code", t.Code).Warn("Quote fetch failed")

		res := s.evaluator.Evaluate(t, &evaluation.RawQuote{
			Status: evaluation.QuoteStatusError,
			Error:  text,
		})
		res.Reason = reason
		s.metrics.RecordEvaluation(string(res.Status), string(res.Signal))
		return NewCard(t, res)
	}

	res := s.evaluator.Evaluate(t, q)
	s.metrics.RecordEvaluation(string(res.Status), string(res.Signal))
	return NewCard(t, res)
}

func (s *Service) fetchQuote(ctx context.Context, symbol string) (*evaluation.RawQuote, error) {
	if s.cache != nil {
		q, ok := s.cache.Get(ctx, symbol)
		s.metrics.RecordCacheLookup(ok)
		if ok {
			return q, nil
		}
	}

	start := s.now()
	q, err := s.provider.FetchQuote(ctx, symbol)
	s.metrics.RecordLatency("fetch_quote", s.now().Sub(start))
	if err != nil {
		return nil, err
	}

	if s.cache != nil && q.Status != evaluation.QuoteStatusError {
		s.cache.Set(ctx, symbol, q)
	}
	return q, nil
}

func (s *Service) newSnapshot(cards []Card) *Snapshot {
	if cards == nil {
		cards = []Card{}
	}
	return &Snapshot{
		ID:          uuid.New().String(),
		GeneratedAt: s.now(),
		Cards:       cards,
		Counts:      countByStatus(cards),
	}
}

func (s *Service) publish(snap *Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	s.metrics.RecordSnapshot(snap.GeneratedAt, snap.Counts)
}
