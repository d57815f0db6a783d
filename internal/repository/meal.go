package repository

import (
	"context"

	"diet-ledger/internal/domain"
)

// MealRepository defines persistence operations for Meal entities. Every
// method that targets a single meal takes the owning user's id alongside the
// meal id; a mismatch behaves exactly like a missing row.
type MealRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, meal *domain.Meal) error
	GetByID(ctx context.Context, id, userID string) (*domain.Meal, error)
	// ListByUser returns the user's meals most recent date first, ties broken
	// by insertion order.
	ListByUser(ctx context.Context, userID string) ([]domain.Meal, error)
	// ListByUserChronological returns the user's meals oldest date first, the
	// order streak computation needs.
	ListByUserChronological(ctx context.Context, userID string) ([]domain.Meal, error)
	Update(ctx context.Context, id, userID string, update domain.MealUpdate) error
	Delete(ctx context.Context, id, userID string) error
}
