package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

// AccessGuard admits requests that carry a valid bearer token for an existing user.
type AccessGuard struct {
	codec ports.TokenCodec
	users ports.UserRepository
}

func NewAccessGuard(codec ports.TokenCodec, users ports.UserRepository) *AccessGuard {
	return &AccessGuard{codec: codec, users: users}
}

// Authorize walks extract → verify → resolve and stops at the first rejection.
func (g *AccessGuard) Authorize(ctx context.Context, authorization string) (*domain.Identity, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, fmt.Errorf("authorize: %w", err)
	}

	return user.Identity(), nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authorization string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}
