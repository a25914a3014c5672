// Package services orchestrates transaction operations across the
// repository and the optional mutation-event publisher.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// EventPublisher announces successful mutations. Publishing is best
// effort; failures are logged and never fail the request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string) error
	Close() error
}

type TransactionService struct {
	repo      storage.Repository
	publisher EventPublisher
}

// NewTransactionService creates the service. publisher may be nil when no
// broker is configured.
func NewTransactionService(repo storage.Repository, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		repo:      repo,
		publisher: publisher,
	}
}

// List returns all transactions ordered by date descending.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Create validates the candidate record, assigns an id and persists it.
// The returned record is the stored one.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = ""
	tx.Description = strings.TrimSpace(tx.Description)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	if err := s.repo.Create(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, tx.ID, amqp.ActionCreated)
	return tx, nil
}

// Update loads the existing record, overlays the supplied fields,
// re-validates the merged record and persists the full editable field
// set. Missing fields are left unchanged.
func (s *TransactionService) Update(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	merged := patch.Apply(existing)
	merged.Description = strings.TrimSpace(merged.Description)
	if err := merged.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publish(ctx, id, amqp.ActionUpdated)
	return merged, nil
}

// Delete removes the transaction permanently. Absent ids surface
// storage.ErrNotFound.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// MonthlySummary aggregates all transactions into the 12 buckets of the
// given calendar year.
func (s *TransactionService) MonthlySummary(ctx context.Context, year int) ([]core.MonthBucket, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions for summary: %w", err)
	}
	return core.MonthlySummary(txs, year), nil
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		// Mutation already persisted; don't fail the request.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes the repository and the publisher.
func (s *TransactionService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
