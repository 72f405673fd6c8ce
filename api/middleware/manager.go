package middleware

import (
	"context"
	"foodorder_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// RateLimiter counts requests per client and endpoint within a window.
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	cfg     *structs.Config
	logger  *gecho.Logger
	limiter RateLimiter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, limiter RateLimiter) *Middleware {
	return &Middleware{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
	}
}
