package app

import (
	"context"
	"time"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/interfaces"
)

// startRateScheduler refreshes the exchange-rate snapshot on a fixed
// interval. The table is eventually consistent: between refreshes (and after
// a failed one) the last stored snapshot keeps serving.
func startRateScheduler(ctx context.Context, rateService interfaces.RateService, logger *common.Logger, interval time.Duration) {
	// Refresh once at startup so a fresh install doesn't wait a full
	// interval for its first real table.
	refreshRates(ctx, rateService, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Rate scheduler: stopped")
			return
		case <-ticker.C:
			refreshRates(ctx, rateService, logger)
		}
	}
}

func refreshRates(ctx context.Context, rateService interfaces.RateService, logger *common.Logger) {
	start := time.Now()
	if _, err := rateService.RefreshRates(ctx); err != nil {
		logger.Warn().Err(err).Msg("Rate refresh failed, keeping previous snapshot")
		return
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("Rate refresh: complete")
}
