// Package ratelimit throttles mutating API routes per client.
package ratelimit

import (
	"fmt"
	"strconv"
	"time"

	"codeberg.org/adcraft/server/internal/errors"
	"codeberg.org/adcraft/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	DefaultRate = "30-M"
	keyPrefix   = "adcraft:ratelimit"
)

type Config struct {
	// formatted as <limit>-<period>, e.g. "30-M" or "1000-H"
	Rate string

	// shared store for multi-instance deployments, nil keeps counters in memory
	Redis *redis.Client
}

type Limiter struct {
	limiter *limiter.Limiter
	store   string
}

func New(cfg Config) (*Limiter, error) {
	if cfg.Rate == "" {
		cfg.Rate = DefaultRate
	}

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}

	opts := limiter.StoreOptions{
		Prefix:          keyPrefix,
		CleanUpInterval: time.Minute,
	}

	var (
		store     limiter.Store
		storeName = "memory"
	)

	if cfg.Redis != nil {
		store, err = sredis.NewStoreWithOptions(cfg.Redis, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}

		storeName = "redis"
	} else {
		store = memory.NewStoreWithOptions(opts)
	}

	return &Limiter{
		limiter: limiter.New(store, rate),
		store:   storeName,
	}, nil
}

// the store backing the counters, "memory" or "redis"
func (l *Limiter) Store() string {
	return l.store
}

func (l *Limiter) Rate() limiter.Rate {
	return l.limiter.Rate
}

// limits by client id when the auth middleware ran first, by IP otherwise
func (l *Limiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.limiter,
		mgin.WithKeyGetter(keyFor),
		mgin.WithLimitReachedHandler(l.handleLimitReached),
		mgin.WithErrorHandler(handleError),
	)
}

func keyFor(c *gin.Context) string {
	if clientID := c.GetString("client_id"); clientID != "" {
		return "client:" + clientID
	}

	return "ip:" + c.ClientIP()
}

func (l *Limiter) handleLimitReached(c *gin.Context) {
	logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
		"key", keyFor(c),
		"path", c.FullPath(),
	)

	c.Header("Retry-After", strconv.Itoa(int(l.limiter.Rate.Period.Seconds())))
	errors.TooManyRequests(c, "too many requests. please slow down.")
}

func handleError(c *gin.Context, err error) {
	errors.InternalError(c, "rate limiter unavailable", err)
}
