package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"diet-ledger/internal/domain"
	"diet-ledger/internal/repository"
)

// IdentityService handles registration and session resolution. A session is
// an opaque token stored on the user row; resolving one is a table lookup.
type IdentityService interface {
	Register(ctx context.Context, name, email string) (*domain.User, error)
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

type identityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) IdentityService {
	return &identityService{users: users}
}

func (s *identityService) Register(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, errors.New("name is required")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		SessionID: uuid.NewString(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *identityService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.GetBySessionID(ctx, token)
}
