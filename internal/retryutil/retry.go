// Package retryutil schedules one deferred retry for best-effort deliveries.
package retryutil

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultDelay   = 2 * time.Second
	defaultTimeout = 12 * time.Second
)

// AsyncRetry runs fn once in the background after delay, with timeout bounding
// the attempt. It exists for sends whose failure the caller can live with
// (the startup notice to the moderation chat); the outcome is only logged.
// Zero delay or timeout selects the defaults.
func AsyncRetry(logger *slog.Logger, name string, delay, timeout time.Duration, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	if delay <= 0 {
		delay = defaultDelay
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(name+"_retry_scheduled", "delay", delay.String())
	go func() {
		time.Sleep(delay)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warn(name+"_retry_failed", "error", err.Error())
			return
		}
		logger.Info(name + "_retry_ok")
	}()
}
