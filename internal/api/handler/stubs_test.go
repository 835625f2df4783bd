package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password, remoteIP string) (string, *domain.Identity, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	_, id, err := s.loginFn(ctx, username, password, "")
	return id, err
}

func (s *stubAuthService) IssueSession(*domain.Identity) (string, error) {
	return "token", nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password, remoteIP string) (string, *domain.Identity, error) {
	return s.loginFn(ctx, username, password, remoteIP)
}

type stubUserService struct {
	registerFn       func(ctx context.Context, in ports.RegisterUserInput) (*domain.Identity, error)
	getFn            func(ctx context.Context, username string) (*domain.Identity, error)
	updateFn         func(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.Identity, error)
	deleteFn         func(ctx context.Context, username string) error
	addFavoriteFn    func(ctx context.Context, username, movieID string) (*domain.Identity, error)
	removeFavoriteFn func(ctx context.Context, username, movieID string) (*domain.Identity, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, username string) (*domain.Identity, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) Update(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.Identity, error) {
	return s.updateFn(ctx, username, in)
}

func (s *stubUserService) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubUserService) AddFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error) {
	return s.addFavoriteFn(ctx, username, movieID)
}

func (s *stubUserService) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.Identity, error) {
	return s.removeFavoriteFn(ctx, username, movieID)
}

type stubMovieService struct {
	movies []domain.Movie
	err    error
}

func (s *stubMovieService) List(context.Context) ([]domain.Movie, error) {
	return s.movies, s.err
}

func (s *stubMovieService) GetByTitle(_ context.Context, title string) (*domain.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.movies {
		if s.movies[i].Title == title {
			return &s.movies[i], nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (s *stubMovieService) GetGenre(_ context.Context, name string) (*domain.Genre, error) {
	for _, m := range s.movies {
		if m.Genre.Name == name {
			g := m.Genre
			return &g, nil
		}
	}
	return nil, domain.ErrGenreNotFound
}

func (s *stubMovieService) GetDirector(_ context.Context, name string) (*domain.Director, error) {
	for _, m := range s.movies {
		if m.Director.Name == name {
			d := m.Director
			return &d, nil
		}
	}
	return nil, domain.ErrDirectorNotFound
}

func (s *stubMovieService) Import(_ context.Context, movies []domain.Movie) (int, error) {
	s.movies = append(s.movies, movies...)
	return len(movies), nil
}

type stubImageStore struct {
	images map[string]string
	closed bool
}

type trackedBody struct {
	io.Reader
	onClose func()
}

func (b *trackedBody) Close() error {
	b.onClose()
	return nil
}

func (s *stubImageStore) Open(_ context.Context, id string) (*ports.Image, error) {
	data, ok := s.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return &ports.Image{
		ContentType: "image/png",
		Length:      int64(len(data)),
		Body:        &trackedBody{Reader: strings.NewReader(data), onClose: func() { s.closed = true }},
	}, nil
}

func (s *stubImageStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", nil
}

// newTestContext returns an echo context with the handler package's validator installed.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
