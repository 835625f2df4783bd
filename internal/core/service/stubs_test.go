package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/myflix/movie-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory credential store
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
	// findErr, when set, is returned by every lookup.
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Favorites = append([]string(nil), u.Favorites...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Username == *patch.Username {
				return nil, domain.ErrUserExists
			}
		}
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Birthday != nil {
		u.Birthday = *patch.Birthday
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) AddFavorite(_ context.Context, id, movieID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, f := range u.Favorites {
		if f == movieID {
			return cloneUser(u), nil
		}
	}
	u.Favorites = append(u.Favorites, movieID)
	return cloneUser(u), nil
}

func (r *stubUserRepo) RemoveFavorite(_ context.Context, id, movieID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	kept := u.Favorites[:0]
	for _, f := range u.Favorites {
		if f != movieID {
			kept = append(kept, f)
		}
	}
	u.Favorites = kept
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// In-memory catalog
// ---------------------------------------------------------------------------

type stubMovieRepo struct {
	movies    []domain.Movie
	listErr   error
	listCalls int
	inserted  []domain.Movie
}

func (r *stubMovieRepo) List(_ context.Context) ([]domain.Movie, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Movie(nil), r.movies...), nil
}

func (r *stubMovieRepo) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	for _, m := range r.movies {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (r *stubMovieRepo) FindByTitle(_ context.Context, title string) (*domain.Movie, error) {
	for _, m := range r.movies {
		if m.Title == title {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (r *stubMovieRepo) FindGenre(_ context.Context, name string) (*domain.Genre, error) {
	for _, m := range r.movies {
		if m.Genre.Name == name {
			g := m.Genre
			return &g, nil
		}
	}
	return nil, domain.ErrGenreNotFound
}

func (r *stubMovieRepo) FindDirector(_ context.Context, name string) (*domain.Director, error) {
	for _, m := range r.movies {
		if m.Director.Name == name {
			d := m.Director
			return &d, nil
		}
	}
	return nil, domain.ErrDirectorNotFound
}

func (r *stubMovieRepo) InsertMany(_ context.Context, movies []domain.Movie) (int, error) {
	r.inserted = append(r.inserted, movies...)
	r.movies = append(r.movies, movies...)
	return len(movies), nil
}

// ---------------------------------------------------------------------------
// Audit sink
// ---------------------------------------------------------------------------

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *stubAuditSink) Enqueue(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

var errStoreDown = fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, errors.New("connection refused"))
