package badger

import (
	"context"
	"fmt"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type rateStore struct {
	store  *Store
	logger *common.Logger
}

// NewRateStore creates a RateStore backed by BadgerHold.
func NewRateStore(store *Store, logger *common.Logger) *rateStore {
	return &rateStore{store: store, logger: logger}
}

func (s *rateStore) SaveRates(_ context.Context, snapshot *models.RateSnapshot) error {
	if snapshot.Base == "" {
		return fmt.Errorf("rate snapshot base currency is required")
	}
	if err := s.store.db.Upsert(rateKey(snapshot.Base), snapshot); err != nil {
		return fmt.Errorf("failed to save rate snapshot for '%s': %w", snapshot.Base, err)
	}
	s.logger.Debug().Str("base", snapshot.Base).Int("rates", len(snapshot.Rates)).Msg("Rate snapshot saved")
	return nil
}

func (s *rateStore) GetRates(_ context.Context, base string) (*models.RateSnapshot, error) {
	var snapshot models.RateSnapshot
	err := s.store.db.Get(rateKey(base), &snapshot)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no rate snapshot for '%s'", base)
		}
		return nil, fmt.Errorf("failed to get rate snapshot for '%s': %w", base, err)
	}
	return &snapshot, nil
}

func rateKey(base string) string {
	return recordKey(kindRates, base)
}
