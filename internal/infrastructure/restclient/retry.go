package restclient

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryAfter converts a Retry-After header into a delay. Both the
// fractional-seconds and HTTP-date forms are accepted; anything else
// yields fallback.
func RetryAfter(header string, fallback time.Duration) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	if seconds, err := strconv.ParseFloat(header, 64); err == nil {
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fallback
		}
		if seconds < 0 {
			return 0
		}
		// clamp before converting, large values overflow time.Duration
		seconds = math.Min(seconds, maxRetryDelay.Seconds())
		return time.Duration(seconds * float64(time.Second))
	}
	if at, err := http.ParseTime(header); err == nil {
		delay := time.Until(at)
		if delay < 0 {
			return 0
		}
		return capDelay(delay)
	}
	return fallback
}

func capDelay(delay time.Duration) time.Duration {
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
