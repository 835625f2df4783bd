package ports

import (
	"context"
	"time"

	"github.com/myflix/movie-api/internal/core/domain"
)

// RegisterUserInput is the DTO passed from the transport layer on sign-up.
type RegisterUserInput struct {
	Username string
	Password string
	Email    string
	Birthday time.Time
}

// UpdateUserInput carries a partial profile update; nil fields are unchanged.
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    *string
	Birthday *time.Time
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.Identity, error)
	Get(ctx context.Context, username string) (*domain.Identity, error)
	Update(ctx context.Context, username string, input UpdateUserInput) (*domain.Identity, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error)
}
