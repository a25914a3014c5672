// Package storage provides the transaction repositories. Three
// implementations share one interface: SQLite (default persistent
// backend), Postgres, and an in-memory store used for development and
// tests.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned when the target transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Repository persists transactions. Implementations rely on single-row
// autocommit statements; there are no cross-record transactions.
type Repository interface {
	// List returns all transactions ordered by date descending, most
	// recently created first on equal dates.
	List(ctx context.Context) ([]core.Transaction, error)

	// Get returns the transaction with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (core.Transaction, error)

	// Create persists a new transaction. The caller has already assigned
	// the id and validated the record.
	Create(ctx context.Context, tx core.Transaction) error

	// Update replaces all editable fields of an existing transaction.
	// Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, tx core.Transaction) error

	// Delete removes a transaction permanently. Returns ErrNotFound if
	// the id does not exist.
	Delete(ctx context.Context, id string) error

	Close() error
}
