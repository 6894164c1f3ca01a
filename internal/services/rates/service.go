// Package rates owns the exchange-rate snapshot lifecycle: fetching from the
// reference-rate provider, persisting snapshots, and serving the latest one
// to the calculators.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/interfaces"
	"github.com/oliverwade/folio/internal/models"
)

// Service implements RateService
type Service struct {
	storage   interfaces.StorageManager
	client    interfaces.RateClient
	reference string
	symbols   []string
	logger    *common.Logger
}

// NewService creates a new rate service. client may be nil; CurrentRates
// then serves whatever snapshot is stored (or the identity table).
func NewService(
	storage interfaces.StorageManager,
	client interfaces.RateClient,
	config *common.Config,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:   storage,
		client:    client,
		reference: config.ReferenceCurrency,
		symbols:   config.Clients.Rates.Symbols,
		logger:    logger,
	}
}

// CurrentRates returns the latest stored snapshot. Before the first
// successful refresh it returns the bare identity table; the converter's
// missing-rate fallback keeps valuation passes producing numbers.
func (s *Service) CurrentRates(ctx context.Context) (models.RateTable, time.Time) {
	snapshot, err := s.storage.RateStore().GetRates(ctx, s.reference)
	if err != nil || snapshot == nil || len(snapshot.Rates) == 0 {
		return models.NewRateTable(s.reference), time.Time{}
	}
	return snapshot.Rates, snapshot.FetchedAt
}

// RefreshRates fetches a fresh table and persists it. On provider failure
// the previous snapshot stays in effect and the error is returned for the
// caller to log.
func (s *Service) RefreshRates(ctx context.Context) (models.RateTable, error) {
	if s.client == nil {
		return nil, fmt.Errorf("no rate provider configured")
	}

	table, err := s.client.GetRates(ctx, s.reference, s.symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}

	snapshot := &models.RateSnapshot{
		Base:      s.reference,
		Rates:     table,
		FetchedAt: time.Now(),
	}
	if err := s.storage.RateStore().SaveRates(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save rate snapshot: %w", err)
	}

	s.logger.Info().
		Str("base", s.reference).
		Int("rates", len(table)).
		Msg("Exchange rates refreshed")

	return table, nil
}

// Fresh reports whether the stored snapshot is younger than the rate TTL.
func (s *Service) Fresh(ctx context.Context) bool {
	_, fetchedAt := s.CurrentRates(ctx)
	return common.IsFresh(fetchedAt, common.FreshnessRates)
}

// Ensure Service implements RateService
var _ interfaces.RateService = (*Service)(nil)
