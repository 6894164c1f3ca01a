// Package badger provides BadgerHold-based storage implementations for
// portfolio records and rate snapshots.
package badger

import (
	"fmt"
	"os"
	"strings"

	"github.com/oliverwade/folio/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// All aggregates share one BadgerHold database, so every key carries a
// per-kind prefix to keep symbol-keyed records from colliding across types.
const (
	kindInstrument = "instrument"
	kindPosition   = "position"
	kindDeposit    = "deposit"
	kindRates      = "rates"
)

// recordKey builds the namespaced key for an aggregate. Identifiers are
// uppercased so lookups stay case-insensitive regardless of caller input.
func recordKey(kind, id string) string {
	return kind + ":" + strings.ToUpper(strings.TrimSpace(id))
}

// Store wraps the BadgerHold database shared by the typed stores.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens the BadgerHold database under path, creating the
// directory when missing.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // badger's own logger is too chatty for console runs

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("Storage opened")

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
