package ports

import (
	"context"

	"github.com/myflix/movie-api/internal/core/domain"
)

// UserRepository is the credential store. Every call is atomic per record.
// Misses are reported as domain.ErrUserNotFound; infrastructure failures wrap
// domain.ErrStoreUnavailable.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	// AddFavorite and RemoveFavorite have set semantics on the favorites list.
	AddFavorite(ctx context.Context, id, movieID string) (*domain.User, error)
	RemoveFavorite(ctx context.Context, id, movieID string) (*domain.User, error)
}
