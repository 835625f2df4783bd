package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/myflix/movie-api/internal/core/domain"
)

// sessionClaims is the JWT body. Only registered claims are carried; the
// subject is the user identifier and nothing from the profile is embedded.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with HS256 signed JWTs.
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTCodec builds a codec bound to secret. The secret is fixed for the
// lifetime of the codec.
func NewJWTCodec(secret, issuer string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &JWTCodec{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// WithClock replaces the time source used for issuing and verifying.
func (c *JWTCodec) WithClock(now func() time.Time) *JWTCodec {
	c.now = now
	return c
}

func (c *JWTCodec) Issue(claims domain.Claims, ttl time.Duration) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("issue token: empty subject")
	}
	tokenID := claims.TokenID
	if tokenID == "" {
		tokenID = uuid.NewString()
	}

	issuedAt := c.now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    c.issuer,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify rejects with domain.ErrSignatureMismatch for anything that is not a
// well-formed token signed with our secret, and with domain.ErrTokenExpired only
// once the signature has been established.
func (c *JWTCodec) Verify(token string) (*domain.Claims, error) {
	var claims sessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)

	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSignatureMismatch, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrSignatureMismatch
	}

	out := &domain.Claims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
