package repository

import (
	"context"

	"diet-ledger/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.User, error)
}
