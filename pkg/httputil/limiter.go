package httputil

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Limiter blocks until a request may be sent. *rate.Limiter and the
// Redis-backed limiter both satisfy it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLocalLimiter returns an in-process token bucket allowing rps requests
// per second. A non-positive rps disables limiting and returns nil.
func NewLocalLimiter(rps float64) Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(math.Max(1, math.Floor(rps)))
	return rate.NewLimiter(rate.Limit(rps), burst)
}
