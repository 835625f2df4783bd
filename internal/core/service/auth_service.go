package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

// DefaultTokenTTL is the session lifetime used when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// dummyPassword is hashed at construction and verified against when the
// username is unknown, so both rejection paths pay for one bcrypt comparison.
const dummyPassword = "myflix-no-such-user"

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	codec    ports.TokenCodec
	tokenTTL time.Duration
	audit    ports.AuditSink
	log      zerolog.Logger
	now      func() time.Time

	dummyDigest atomic.Pointer[string]
}

// NewAuthService wires the login pipeline. audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	tokenTTL time.Duration,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	s := &AuthService{
		users:    users,
		hasher:   hasher,
		codec:    codec,
		tokenTTL: tokenTTL,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
	if hasher != nil {
		s.dummyHash(context.Background())
	}
	return s
}

// Authenticate checks a username/password pair. An unknown username and a wrong
// password both return domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if _, err := s.hasher.Verify(ctx, password, s.dummyHash(ctx)); err != nil &&
				!errors.Is(err, domain.ErrInvalidHashFormat) {
				return nil, fmt.Errorf("authenticate: %w", err)
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidHashFormat) {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash is malformed")
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user.Identity(), nil
}

// IssueSession signs a token whose subject is the identity's ID.
func (s *AuthService) IssueSession(identity *domain.Identity) (string, error) {
	if identity == nil || identity.ID == "" {
		return "", errors.New("issue session: identity without id")
	}
	return s.codec.Issue(domain.Claims{Subject: identity.ID}, s.tokenTTL)
}

// Login authenticates and, on success, issues a session token. Every attempt is
// handed to the audit sink.
func (s *AuthService) Login(ctx context.Context, username, password, remoteIP string) (string, *domain.Identity, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		s.record(username, remoteIP, err)
		return "", nil, err
	}

	token, err := s.IssueSession(identity)
	if err != nil {
		s.record(username, remoteIP, err)
		return "", nil, err
	}

	s.record(username, remoteIP, nil)
	s.log.Info().Str("user_id", identity.ID).Msg("session issued")
	return token, identity, nil
}

func (s *AuthService) record(username, remoteIP string, err error) {
	if s.audit == nil {
		return
	}
	event := domain.AuthEvent{
		Username:  username,
		Outcome:   domain.AuthOutcomeSuccess,
		RemoteIP:  remoteIP,
		Timestamp: s.now().UTC(),
	}
	if err != nil {
		event.Outcome = domain.AuthOutcomeFailure
		event.Reason = domain.RejectionReason(err)
	}
	s.audit.Enqueue(event)
}

// dummyHash returns the digest of dummyPassword. A failed computation is not
// cached; the next unknown-user login tries again. The caller's cancellation
// is ignored here so an aborted request cannot leave the digest unset.
func (s *AuthService) dummyHash(ctx context.Context) string {
	if d := s.dummyDigest.Load(); d != nil {
		return *d
	}
	digest, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not prepare dummy password hash")
		return ""
	}
	s.dummyDigest.CompareAndSwap(nil, &digest)
	return *s.dummyDigest.Load()
}
