package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

// UserService implements profile management and the favorites list.
type UserService struct {
	users  ports.UserRepository
	movies ports.MovieRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, movies ports.MovieRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, movies: movies, hasher: hasher, log: log, now: time.Now}
}

// Register hashes the password and stores a new user.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.Identity, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, domain.ErrInvalidUserInput
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Birthday:     in.Birthday,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created.Identity(), nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// Update applies a partial update. A new password is hashed before it is stored.
func (s *UserService) Update(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	patch := domain.UserPatch{
		Username: in.Username,
		Email:    in.Email,
		Birthday: in.Birthday,
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrInvalidUserInput
		}
		hash, err := s.hasher.Hash(ctx, *in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if patch.IsEmpty() {
		return user.Identity(), nil
	}

	updated, err := s.users.Update(ctx, user.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", updated.ID).Bool("password_changed", patch.PasswordHash != nil).Msg("user updated")
	return updated.Identity(), nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user deleted")
	return nil
}

// AddFavorite adds movieID to the user's favorites after checking it exists.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, err := s.movies.FindByID(ctx, movieID); err != nil {
		return nil, err
	}

	updated, err := s.users.AddFavorite(ctx, user.ID, movieID)
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return updated.Identity(), nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.RemoveFavorite(ctx, user.ID, movieID)
	if err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}
	return updated.Identity(), nil
}
