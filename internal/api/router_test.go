package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/api/handler"
	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
	"github.com/myflix/movie-api/internal/core/service"
)

const routerSecret = "router-test-secret-0123456789abcdef"

// memUsers is a minimal in-memory credential store.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	next  int
}

func (m *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			c := *u
			c.Favorites = append([]string{}, u.Favorites...)
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	m.next++
	c := *user
	c.ID = fmt.Sprintf("u%d", m.next)
	m.users[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != nil {
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
	c := *u
	return &c, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) AddFavorite(_ context.Context, id, movieID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, f := range u.Favorites {
		if f == movieID {
			c := *u
			return &c, nil
		}
	}
	u.Favorites = append(u.Favorites, movieID)
	c := *u
	return &c, nil
}

func (m *memUsers) RemoveFavorite(_ context.Context, id, movieID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
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
	c := *u
	return &c, nil
}

type memMovies struct {
	movies []domain.Movie
}

func (m *memMovies) List(context.Context) ([]domain.Movie, error) { return m.movies, nil }

func (m *memMovies) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	for i := range m.movies {
		if m.movies[i].ID == id {
			return &m.movies[i], nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (m *memMovies) FindByTitle(_ context.Context, title string) (*domain.Movie, error) {
	for i := range m.movies {
		if m.movies[i].Title == title {
			return &m.movies[i], nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (m *memMovies) FindGenre(_ context.Context, name string) (*domain.Genre, error) {
	for _, mv := range m.movies {
		if mv.Genre.Name == name {
			g := mv.Genre
			return &g, nil
		}
	}
	return nil, domain.ErrGenreNotFound
}

func (m *memMovies) FindDirector(_ context.Context, name string) (*domain.Director, error) {
	for _, mv := range m.movies {
		if mv.Director.Name == name {
			d := mv.Director
			return &d, nil
		}
	}
	return nil, domain.ErrDirectorNotFound
}

func (m *memMovies) InsertMany(_ context.Context, movies []domain.Movie) (int, error) {
	m.movies = append(m.movies, movies...)
	return len(movies), nil
}

type noImages struct{}

func (noImages) Open(context.Context, string) (*ports.Image, error) {
	return nil, domain.ErrImageNotFound
}

func (noImages) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", nil
}

type testServer struct {
	e     *echo.Echo
	clock *time.Time
	users *memUsers
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := &testServer{clock: &now, users: &memUsers{users: map[string]*domain.User{}}}

	hasher, err := service.NewBcryptHasher(4, 2)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	codec, err := service.NewJWTCodec(routerSecret, "myflix")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	codec = codec.WithClock(func() time.Time { return *ts.clock })

	movies := &memMovies{movies: []domain.Movie{{
		ID:       "m1",
		Title:    "Inception",
		Genre:    domain.Genre{Name: "Sci-Fi"},
		Director: domain.Director{Name: "Christopher Nolan"},
	}}}

	ts.e = NewRouter(Deps{
		Auth:   service.NewAuthService(ts.users, hasher, codec, time.Hour, nil, log),
		Guard:  service.NewAccessGuard(codec, ts.users),
		Users:  service.NewUserService(ts.users, movies, hasher, log),
		Movies: service.NewMovieService(movies, nil, log),
		Images: noImages{},
		Checks: map[string]handler.CheckFunc{},
		Log:    log,
	})
	return ts
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	rec := ts.do(http.MethodPost, "/users",
		fmt.Sprintf(`{"username":%q,"password":%q,"email":"%s@example.com","birthday":"1990-05-17"}`, username, password, username), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodPost, "/login", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("no token in login response: %s", rec.Body.String())
	}
	return resp.Token
}

func TestRouter_Welcome(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != welcomeMessage {
		t.Fatalf("unexpected welcome: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginThenAccessProtectedRoute(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice01", "s3cret")

	rec := ts.do(http.MethodGet, "/movies", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Any mutation of the token is a signature mismatch.
	rec = ts.do(http.MethodGet, "/movies", "", token+"x")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", rec.Code)
	}

	// Past expiry the same token is refused.
	*ts.clock = ts.clock.Add(time.Hour)
	rec = ts.do(http.MethodGet, "/movies", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_LoginRejectionsAreUniform(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice01", "s3cret")

	wrongPassword := ts.do(http.MethodPost, "/login", `{"username":"alice01","password":"nope"}`, "")
	unknownUser := ts.do(http.MethodPost, "/login", `{"username":"mallory","password":"nope"}`, "")

	if wrongPassword.Code != http.StatusBadRequest || unknownUser.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for both, got %d and %d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestRouter_ProtectedRouteRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/movies", "/movies/Inception", "/movies/genres/Sci-Fi", "/movies/directors/Christopher%20Nolan", "/users/alice01"} {
		rec := ts.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_DeletedUserTokenIsRejected(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice01", "s3cret")

	rec := ts.do(http.MethodDelete, "/users/alice01", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodGet, "/movies", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replayed token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_SelfOnlyRoutes(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.registerAndLogin(t, "alice01", "s3cret")
	ts.registerAndLogin(t, "bobby01", "hunter2")

	rec := ts.do(http.MethodDelete, "/users/bobby01", "", alice)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = ts.do(http.MethodPost, "/users/alice01/movies/m1", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("add favorite: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = ts.do(http.MethodPost, "/users/alice01/movies/missing", "", alice)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown movie: expected 404, got %d", rec.Code)
	}

	// Other users' profiles are readable.
	rec = ts.do(http.MethodGet, "/users/bobby01", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("get other user: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RegisterValidation(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/users", `{"username":"bob","password":"x","email":"nope","birthday":"yesterday"}`, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", body.Fields)
	}
}
