package utils

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// BackoffRetry retries up to `maxAttempts` times, and the interval will grow exponentially
func BackoffRetry(ctx context.Context, maxAttempts int, f func() error) error {
	// make sure to execute at least once
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	interval := 1
	timer := time.NewTimer(0)
	defer timer.Stop()

	for i := 0; i < maxAttempts; i++ {
		select {
		case <-ctx.Done():
			log.Debug("[BackoffRetry] abort")
			return ctx.Err()
		case <-timer.C:
			if err = f(); err == nil {
				return nil
			}
			log.Debugf("[BackoffRetry] will retry after %v seconds", interval)
			timer.Reset(time.Duration(interval) * time.Second)
			interval *= 2
		}
	}
	return err
}
