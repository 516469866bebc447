// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"outgo/internal/core"
	"outgo/internal/events"
	"outgo/internal/ledger"
)

// Publisher emits a ledger event after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, eventType string, ownerID, entityID int64) error
}

// LedgerService orchestrates ledger mutations across storage and AMQP.
// The publisher is optional, mutations succeed even when it is absent
// or failing.
type LedgerService struct {
	store     ledger.Store
	publisher Publisher
}

func NewLedgerService(store ledger.Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// CreateExpense saves an expense and publishes a created event
func (s *LedgerService) CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (int64, error) {
	id, err := s.store.CreateExpense(ctx, ownerID, e)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, events.TypeExpenseCreated, ownerID, id)
	return id, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, ownerID int64, e core.Expense) error {
	if err := s.store.UpdateExpense(ctx, ownerID, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, events.TypeExpenseUpdated, ownerID, e.ID)
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteExpense(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.TypeExpenseDeleted, ownerID, id)
	return nil
}

func (s *LedgerService) CreateCategory(ctx context.Context, ownerID int64, name string) (int64, error) {
	id, err := s.store.CreateCategory(ctx, ownerID, name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	s.publish(ctx, events.TypeCategoryCreated, ownerID, id)
	return id, nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, ownerID, id int64, name string) error {
	if err := s.store.UpdateCategory(ctx, ownerID, id, name); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	s.publish(ctx, events.TypeCategoryUpdated, ownerID, id)
	return nil
}

// DeleteCategory removes a category; expenses referencing it keep living
// with a cleared category.
func (s *LedgerService) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteCategory(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.publish(ctx, events.TypeCategoryDeleted, ownerID, id)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, eventType string, ownerID, entityID int64) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, eventType, ownerID, entityID); err != nil {
		// Don't fail the request, the mutation is already committed.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", eventType,
			"owner_id", ownerID,
			"entity_id", entityID,
			"error", err)
	}
}
