package ports

import (
	"context"
	"time"

	"github.com/myflix/movie-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Verify returns (false, nil) on
// mismatch and an error wrapping domain.ErrInvalidHashFormat on a malformed digest.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, digest string) (bool, error)
}

// TokenCodec signs claims into bearer tokens and verifies presented ones.
type TokenCodec interface {
	// Issue stamps IssuedAt and ExpiresAt (IssuedAt + ttl) on claims and signs them.
	Issue(claims domain.Claims, ttl time.Duration) (string, error)
	// Verify checks the signature before anything else, then expiry.
	Verify(token string) (*domain.Claims, error)
}

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
	IssueSession(identity *domain.Identity) (string, error)
	Login(ctx context.Context, username, password, remoteIP string) (string, *domain.Identity, error)
}

// AccessGuard resolves the identity behind an Authorization header value.
type AccessGuard interface {
	Authorize(ctx context.Context, authorization string) (*domain.Identity, error)
}

// AuditSink accepts login audit events without blocking the caller.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// AuditRecorder persists login audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event *domain.AuthEvent) error
}
