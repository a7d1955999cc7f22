package commands

import (
	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/external/gas"
	"github.com/wonny/trendwatch/internal/quotecache"
	"github.com/wonny/trendwatch/internal/watchlist"
	"github.com/wonny/trendwatch/pkg/config"
	"github.com/wonny/trendwatch/pkg/httputil"
	"github.com/wonny/trendwatch/pkg/logger"
	"github.com/wonny/trendwatch/pkg/metrics"
	"github.com/wonny/trendwatch/pkg/redis"
)

// app holds the wired service graph shared by serve and evaluate.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	service *dashboard.Service
	metrics *metrics.Recorder
	redis   *redis.Client
}

func newApp(cfg *config.Config, log *logger.Logger) *app {
	seed, err := watchlist.LoadFile(cfg.Watchlist.File)
	if err != nil {
		log.WithError(err).WithField("file", cfg.Watchlist.File).Warn("Watch-list seed file unavailable")
		seed = &watchlist.File{}
	}

	if gas.IsPlaceholderEndpoint(cfg.GAS.Endpoint) {
		log.Warn("GAS_ENDPOINT is not configured, quotes will be reported as errors")
	}

	httpClient := httputil.New(cfg, log)
	provider := gas.NewClient(cfg.GAS.Endpoint, httpClient, log)

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-memory quote cache")
		rdb = redis.NewFromRedis(nil)
	}
	cache := quotecache.New(rdb, cfg.GAS.CacheTTL, log)

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}

	service := dashboard.NewService(
		provider,
		cache,
		evaluation.NewEvaluator(cfg.Location()),
		rec,
		dashboard.Options{
			Concurrency: cfg.Watchlist.Concurrency,
			Fallback:    seed.Tickers,
			Overrides:   seed.OverrideTable(),
		},
		log,
	)

	return &app{
		cfg:     cfg,
		log:     log,
		service: service,
		metrics: rec,
		redis:   rdb,
	}
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
