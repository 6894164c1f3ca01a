package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type portfolioStore struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStore creates a PortfolioStore backed by BadgerHold.
func NewPortfolioStore(store *Store, logger *common.Logger) *portfolioStore {
	return &portfolioStore{store: store, logger: logger}
}

func (s *portfolioStore) SaveInstrument(_ context.Context, inst *models.Instrument) error {
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("invalid instrument: %w", err)
	}
	inst.UpdatedAt = time.Now()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = inst.UpdatedAt
	}
	if err := s.store.db.Upsert(instrumentKey(inst.Symbol), inst); err != nil {
		return fmt.Errorf("failed to save instrument '%s': %w", inst.Symbol, err)
	}
	s.logger.Debug().Str("symbol", inst.Symbol).Msg("Instrument saved")
	return nil
}

func (s *portfolioStore) GetInstrument(_ context.Context, symbol string) (*models.Instrument, error) {
	var inst models.Instrument
	err := s.store.db.Get(instrumentKey(symbol), &inst)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("instrument '%s' not found", symbol)
		}
		return nil, fmt.Errorf("failed to get instrument '%s': %w", symbol, err)
	}
	return &inst, nil
}

func (s *portfolioStore) ListInstruments(_ context.Context) ([]*models.Instrument, error) {
	var instruments []*models.Instrument
	if err := s.store.db.Find(&instruments, nil); err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	return instruments, nil
}

func (s *portfolioStore) DeleteInstrument(_ context.Context, symbol string) error {
	err := s.store.db.Delete(instrumentKey(symbol), models.Instrument{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete instrument '%s': %w", symbol, err)
	}
	s.logger.Debug().Str("symbol", symbol).Msg("Instrument deleted")
	return nil
}

func (s *portfolioStore) SavePosition(_ context.Context, pos *models.Position) error {
	pos.UpdatedAt = time.Now()
	if pos.CreatedAt.IsZero() {
		pos.CreatedAt = pos.UpdatedAt
	}
	if err := s.store.db.Upsert(positionKey(pos.Symbol), pos); err != nil {
		return fmt.Errorf("failed to save position '%s': %w", pos.Symbol, err)
	}
	s.logger.Debug().Str("symbol", pos.Symbol).Msg("Position saved")
	return nil
}

func (s *portfolioStore) GetPosition(_ context.Context, symbol string) (*models.Position, error) {
	var pos models.Position
	err := s.store.db.Get(positionKey(symbol), &pos)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("position '%s' not found", symbol)
		}
		return nil, fmt.Errorf("failed to get position '%s': %w", symbol, err)
	}
	return &pos, nil
}

func (s *portfolioStore) ListPositions(_ context.Context) ([]*models.Position, error) {
	var positions []*models.Position
	if err := s.store.db.Find(&positions, nil); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

func (s *portfolioStore) DeletePosition(_ context.Context, symbol string) error {
	err := s.store.db.Delete(positionKey(symbol), models.Position{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position '%s': %w", symbol, err)
	}
	s.logger.Debug().Str("symbol", symbol).Msg("Position deleted")
	return nil
}

func (s *portfolioStore) SaveDeposit(_ context.Context, dep *models.FixedDeposit) error {
	dep.UpdatedAt = time.Now()
	if dep.CreatedAt.IsZero() {
		dep.CreatedAt = dep.UpdatedAt
	}
	if dep.ID == "" {
		dep.ID = dep.Bank
	}
	if err := s.store.db.Upsert(depositKey(dep.ID), dep); err != nil {
		return fmt.Errorf("failed to save deposit '%s': %w", dep.ID, err)
	}
	s.logger.Debug().Str("id", dep.ID).Msg("Deposit saved")
	return nil
}

func (s *portfolioStore) ListDeposits(_ context.Context) ([]*models.FixedDeposit, error) {
	var deposits []*models.FixedDeposit
	if err := s.store.db.Find(&deposits, nil); err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, nil
}

func (s *portfolioStore) DeleteDeposit(_ context.Context, id string) error {
	err := s.store.db.Delete(depositKey(id), models.FixedDeposit{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete deposit '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Deposit deleted")
	return nil
}

func instrumentKey(symbol string) string {
	return recordKey(kindInstrument, symbol)
}

func positionKey(symbol string) string {
	return recordKey(kindPosition, symbol)
}

func depositKey(id string) string {
	return recordKey(kindDeposit, id)
}
