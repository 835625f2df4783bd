package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myflix/movie-api/internal/api/metrics"
	"github.com/myflix/movie-api/internal/core/domain"
)

const (
	movieListKey    = "movies:all"
	defaultCacheTTL = 5 * time.Minute
)

// MovieCache keeps the full catalog listing in Redis as a single JSON value.
type MovieCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewMovieCache wraps client. ttl <= 0 selects defaultCacheTTL.
func NewMovieCache(client redis.Cmdable, ttl time.Duration) *MovieCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MovieCache{client: client, ttl: ttl}
}

// GetAll returns the cached listing; found is false on a miss.
func (c *MovieCache) GetAll(ctx context.Context) ([]domain.Movie, bool, error) {
	raw, err := c.client.Get(ctx, movieListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.MovieCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.MovieCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("movie cache get: %w", err)
	}

	var movies []domain.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		metrics.MovieCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("movie cache decode: %w", err)
	}
	metrics.MovieCacheTotal.WithLabelValues("hit").Inc()
	return movies, true, nil
}

// SetAll replaces the cached listing.
func (c *MovieCache) SetAll(ctx context.Context, movies []domain.Movie) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("movie cache encode: %w", err)
	}
	if err := c.client.Set(ctx, movieListKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("movie cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing so the next read goes to Mongo.
func (c *MovieCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, movieListKey).Err(); err != nil {
		return fmt.Errorf("movie cache invalidate: %w", err)
	}
	return nil
}
