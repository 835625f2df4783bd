package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/myflix/movie-api/internal/core/domain"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", domain.ErrMissingToken},
		{"Bearer", "", domain.ErrMissingToken},
		{"Bearer   ", "", domain.ErrMissingToken},
		{"Token abc", "", domain.ErrMissingToken},
		{"Basic dXNlcjpwdw==", "", domain.ErrMissingToken},
	}
	for _, tc := range cases {
		got, err := BearerToken(tc.header)
		if got != tc.want || err != tc.err {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, err, tc.want, tc.err)
		}
	}
}

func TestAccessGuard_Scenario(t *testing.T) {
	f := newAuthFixture(t)
	guard := NewAccessGuard(f.codec, f.users)
	ctx := context.Background()

	f.seedUser(t, "alice", "s3cret!")

	token, _, err := f.svc.Login(ctx, "alice", "s3cret!", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := guard.Authorize(ctx, "Bearer "+token)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if id.Username != "alice" {
		t.Fatalf("identity.username = %q, want alice", id.Username)
	}

	if _, err := guard.Authorize(ctx, "Bearer "+token+"x"); !errors.Is(err, domain.ErrSignatureMismatch) {
		t.Fatalf("tampered token: expected ErrSignatureMismatch, got %v", err)
	}

	f.clock.Advance(time.Hour)
	if _, err := guard.Authorize(ctx, "Bearer "+token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("after ttl: expected ErrTokenExpired, got %v", err)
	}
}

func TestAccessGuard_DeletedSubject(t *testing.T) {
	f := newAuthFixture(t)
	guard := NewAccessGuard(f.codec, f.users)
	ctx := context.Background()

	alice := f.seedUser(t, "alice", "s3cret!")
	token, _, err := f.svc.Login(ctx, "alice", "s3cret!", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := f.users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := guard.Authorize(ctx, "Bearer "+token); !errors.Is(err, domain.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestAccessGuard_MissingToken(t *testing.T) {
	f := newAuthFixture(t)
	guard := NewAccessGuard(f.codec, f.users)

	if _, err := guard.Authorize(context.Background(), ""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAccessGuard_StoreUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	guard := NewAccessGuard(f.codec, f.users)

	token, _ := f.codec.Issue(domain.Claims{Subject: "user-1"}, time.Hour)
	f.users.findErr = errStoreDown

	_, err := guard.Authorize(context.Background(), "Bearer "+token)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if domain.IsAuthFailure(err) {
		t.Fatalf("store failure must not be reported as an auth rejection")
	}
}

func TestAccessGuard_ResolvesStoredProfile(t *testing.T) {
	f := newAuthFixture(t)
	guard := NewAccessGuard(f.codec, f.users)
	u := f.seedUser(t, "dave", "pw")
	token, _ := f.svc.IssueSession(u.Identity())

	id, err := guard.Authorize(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if id.ID != u.ID || id.Email != "dave@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}
