// Package storage wires concrete storage backends behind the
// interfaces.StorageManager contract.
package storage

import (
	"fmt"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/interfaces"
	"github.com/oliverwade/folio/internal/storage/badger"
)

// Manager owns the BadgerHold store and hands out typed accessors.
type Manager struct {
	store     *badger.Store
	portfolio interfaces.PortfolioStore
	rates     interfaces.RateStore
	logger    *common.Logger
}

// NewStorageManager opens the data directory and initializes all stores.
func NewStorageManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", config.Storage.Path, err)
	}

	return &Manager{
		store:     store,
		portfolio: badger.NewPortfolioStore(store, logger),
		rates:     badger.NewRateStore(store, logger),
		logger:    logger,
	}, nil
}

// PortfolioStore returns the instrument/position/deposit store.
func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolio
}

// RateStore returns the exchange-rate snapshot store.
func (m *Manager) RateStore() interfaces.RateStore {
	return m.rates
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
