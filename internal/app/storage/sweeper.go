/*
Package storage provides the file storage service behind the upload
endpoint and room teardown.

This file contains the periodic sweep loop that deletes stale uploads
regardless of room association.
*/
package storage

import (
	"context"
	"time"

	"slidecast/internal/pkg/logx"
)

// RunSweeper runs svc.Sweep every interval until ctx is cancelled. Started
// as a goroutine from the process bootstrap.
func RunSweeper(ctx context.Context, svc Service, interval, maxAge time.Duration) {
	logger := logx.Logger().With().Str("component", "Sweeper").Logger()
	logger.Info().Dur("interval", interval).Dur("max_age", maxAge).Msg("Sweep loop started.")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Sweep loop stopped.")
			return

		case <-ticker.C:
			removed, err := svc.Sweep(ctx, maxAge)
			if err != nil {
				logger.Warn().Err(err).Msg("Sweep pass failed.")
				continue
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("Sweep pass removed stale files.")
			}
		}
	}
}
