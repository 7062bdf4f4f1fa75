package commands

import (
	"fmt"

	"github.com/wonny/companydata/internal/aggregator"
	"github.com/wonny/companydata/internal/external/alphavantage"
	"github.com/wonny/companydata/internal/external/edgar"
	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/httputil"
	"github.com/wonny/companydata/pkg/logger"
	"github.com/wonny/companydata/pkg/redis"
)

// rateLimitPrefix namespaces shared limiter keys in Redis
const rateLimitPrefix = "companydata"

// app holds the wired dependencies shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	quotes  *alphavantage.Client
	filings *edgar.Client
	service *aggregator.Service
}

// bootstrap loads config and wires clients, limiters and the service
func bootstrap() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	rc, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.New(cfg, log)
	limiterFor := newLimiterFactory(rc)

	quotes := alphavantage.NewClient(
		httpClient.WithRateLimiter(limiterFor(alphavantage.Source, cfg.AlphaVantage.RateLimit)),
		cfg.AlphaVantage,
		log,
	)
	filings := edgar.NewClient(
		httpClient.WithRateLimiter(limiterFor(edgar.Source, cfg.SEC.RateLimit)),
		cfg.SEC,
		log,
	)

	log.WithFields(map[string]interface{}{
		"http_timeout":     cfg.HTTP.Timeout.String(),
		"form_type":        cfg.SEC.FormType,
		"redis_limiter":    rc.Enabled(),
		"av_rate_limit":    cfg.AlphaVantage.RateLimit,
		"edgar_rate_limit": cfg.SEC.RateLimit,
	}).Debug("Dependencies wired")

	return &app{
		cfg:     cfg,
		log:     log,
		redis:   rc,
		quotes:  quotes,
		filings: filings,
		service: aggregator.NewService(quotes, filings, log),
	}, nil
}

// Close releases the Redis connection, if any
func (a *app) Close() error {
	return a.redis.Close()
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.LoadFile(envFile)
	}
	return config.Load()
}

// newLimiterFactory picks the shared Redis limiter when Redis is enabled and
// an in-process token bucket otherwise. A non-positive rate disables limiting.
func newLimiterFactory(rc *redis.Client) func(key string, rps float64) httputil.Limiter {
	shared := redis.NewRateLimiter(rc, rateLimitPrefix)

	return func(key string, rps float64) httputil.Limiter {
		if rps <= 0 {
			return nil
		}
		if rc.Enabled() {
			return shared.For(redis.PerSecond(key, rps))
		}
		return httputil.NewLocalLimiter(rps)
	}
}
