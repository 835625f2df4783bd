package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

// MovieService serves the catalog, reading through the cache when one is set.
type MovieService struct {
	repo  ports.MovieRepository
	cache ports.MovieCache
	log   zerolog.Logger
}

// NewMovieService returns a MovieService. cache may be nil.
func NewMovieService(repo ports.MovieRepository, cache ports.MovieCache, log zerolog.Logger) *MovieService {
	return &MovieService{repo: repo, cache: cache, log: log}
}

// List returns the whole catalog. Cache failures are logged and otherwise ignored.
func (s *MovieService) List(ctx context.Context) ([]domain.Movie, error) {
	if s.cache != nil {
		movies, ok, err := s.cache.GetAll(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("movie cache read failed, falling back to store")
		} else if ok {
			return movies, nil
		}
	}

	movies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetAll(ctx, movies); err != nil {
			s.log.Warn().Err(err).Msg("movie cache write failed")
		}
	}
	return movies, nil
}

func (s *MovieService) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return s.repo.FindByTitle(ctx, title)
}

func (s *MovieService) GetGenre(ctx context.Context, name string) (*domain.Genre, error) {
	return s.repo.FindGenre(ctx, name)
}

func (s *MovieService) GetDirector(ctx context.Context, name string) (*domain.Director, error) {
	return s.repo.FindDirector(ctx, name)
}

// Import bulk-inserts movies and drops the cached listing.
func (s *MovieService) Import(ctx context.Context, movies []domain.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	n, err := s.repo.InsertMany(ctx, movies)
	if err != nil {
		return n, fmt.Errorf("import movies: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("movie cache invalidation failed")
		}
	}
	s.log.Info().Int("count", n).Msg("movies imported")
	return n, nil
}
