// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/oliverwade/folio/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	PortfolioStore() PortfolioStore
	RateStore() RateStore
	Close() error
}

// PortfolioStore durably stores instruments, positions and fixed deposits
// and returns them unchanged.
type PortfolioStore interface {
	// Instruments
	SaveInstrument(ctx context.Context, inst *models.Instrument) error
	GetInstrument(ctx context.Context, symbol string) (*models.Instrument, error)
	ListInstruments(ctx context.Context) ([]*models.Instrument, error)
	DeleteInstrument(ctx context.Context, symbol string) error

	// Positions
	SavePosition(ctx context.Context, pos *models.Position) error
	GetPosition(ctx context.Context, symbol string) (*models.Position, error)
	ListPositions(ctx context.Context) ([]*models.Position, error)
	DeletePosition(ctx context.Context, symbol string) error

	// Fixed deposits
	SaveDeposit(ctx context.Context, dep *models.FixedDeposit) error
	ListDeposits(ctx context.Context) ([]*models.FixedDeposit, error)
	DeleteDeposit(ctx context.Context, id string) error
}

// RateStore persists exchange-rate snapshots, keyed by base currency.
type RateStore interface {
	SaveRates(ctx context.Context, snapshot *models.RateSnapshot) error
	GetRates(ctx context.Context, base string) (*models.RateSnapshot, error)
}
