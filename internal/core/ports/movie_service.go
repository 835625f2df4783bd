package ports

import (
	"context"

	"github.com/myflix/movie-api/internal/core/domain"
)

type MovieService interface {
	List(ctx context.Context) ([]domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (*domain.Movie, error)
	GetGenre(ctx context.Context, name string) (*domain.Genre, error)
	GetDirector(ctx context.Context, name string) (*domain.Director, error)
	Import(ctx context.Context, movies []domain.Movie) (int, error)
}
