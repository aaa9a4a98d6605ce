// Package services orchestrates ledger mutations: every write goes to
// SQLite first, then announces itself on the event bus. The bus is
// best-effort; a broker failure never fails the user's action.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
)

type (
	// LedgerWriter is the mutating subset of the ledger store.
	LedgerWriter interface {
		Insert(ctx context.Context, tx core.Transaction) (int64, error)
		Delete(ctx context.Context, id int64) error
		Close() error
	}

	// EventPublisher announces ledger mutations to external automation.
	EventPublisher interface {
		PublishTransactionCreated(ctx context.Context, id int64) error
		PublishTransactionDeleted(ctx context.Context, id int64) error
		Close() error
	}
)

// LedgerService couples the store with the optional event publisher.
type LedgerService struct {
	storage   LedgerWriter
	publisher EventPublisher
}

func NewLedgerService(storage LedgerWriter, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		storage:   storage,
		publisher: publisher,
	}
}

// AddTransaction saves a transaction and publishes a created event.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.storage.Insert(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping created event", ledgerFields(id).ToSlice()...)
		return id, nil
	}
	if err := s.publisher.PublishTransactionCreated(ctx, id); err != nil {
		// Don't fail the request - the transaction is saved locally
		slog.ErrorContext(ctx, "Failed to publish created event", ledgerFields(id).WithError(err).ToSlice()...)
	}

	return id, nil
}

// RemoveTransaction deletes by id (idempotent) and publishes a deleted event.
func (s *LedgerService) RemoveTransaction(ctx context.Context, id int64) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping deleted event", ledgerFields(id).ToSlice()...)
		return nil
	}
	if err := s.publisher.PublishTransactionDeleted(ctx, id); err != nil {
		// Don't fail the request - the row is already gone
		slog.ErrorContext(ctx, "Failed to publish deleted event", ledgerFields(id).WithError(err).ToSlice()...)
	}

	return nil
}

func ledgerFields(id int64) applog.LogFields {
	fields := applog.NewFields().WithComponent(applog.ComponentLedger)
	fields[applog.FieldTxID] = id
	return fields
}

// Close closes both the storage and the publisher connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
