package ports

import (
	"context"
	"io"

	"github.com/myflix/movie-api/internal/core/domain"
)

// MovieRepository defines persistence operations for the catalog.
type MovieRepository interface {
	List(ctx context.Context) ([]domain.Movie, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	FindByTitle(ctx context.Context, title string) (*domain.Movie, error)
	// FindGenre returns the genre embedded in any movie with that genre name.
	FindGenre(ctx context.Context, name string) (*domain.Genre, error)
	FindDirector(ctx context.Context, name string) (*domain.Director, error)
	InsertMany(ctx context.Context, movies []domain.Movie) (int, error)
}

// MovieCache is a best-effort cache of the full catalog listing.
type MovieCache interface {
	GetAll(ctx context.Context) ([]domain.Movie, bool, error)
	SetAll(ctx context.Context, movies []domain.Movie) error
	Invalidate(ctx context.Context) error
}

// Image is an open stored image. Callers must close Body.
type Image struct {
	ContentType string
	Length      int64
	Body        io.ReadCloser
}

// ImageStore serves and stores catalog images.
type ImageStore interface {
	Open(ctx context.Context, id string) (*Image, error)
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}
