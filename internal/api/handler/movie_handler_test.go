package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/domain"
)

func catalog() *stubMovieService {
	return &stubMovieService{movies: []domain.Movie{
		{
			ID:       "m1",
			Title:    "Inception",
			Genre:    domain.Genre{Name: "Sci-Fi", Description: "Speculative fiction."},
			Director: domain.Director{Name: "Christopher Nolan", Bio: "British-American filmmaker."},
			Actors:   []string{"Leonardo DiCaprio"},
		},
	}}
}

func TestMovieHandler_List(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/movies", "")
	if err := NewMovieHandler(catalog()).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var movies []domain.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &movies); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Inception" {
		t.Fatalf("unexpected movies: %+v", movies)
	}
}

func byTitle(h *MovieHandler) echo.HandlerFunc    { return h.GetByTitle }
func byGenre(h *MovieHandler) echo.HandlerFunc    { return h.GetGenre }
func byDirector(h *MovieHandler) echo.HandlerFunc { return h.GetDirector }

func TestMovieHandler_Lookups(t *testing.T) {
	h := NewMovieHandler(catalog())

	tests := []struct {
		name    string
		param   string
		value   string
		call    func(h *MovieHandler) echo.HandlerFunc
		wantErr error
	}{
		{"title hit", "title", "Inception", byTitle, nil},
		{"title miss", "title", "Heat", byTitle, domain.ErrMovieNotFound},
		{"genre hit", "name", "Sci-Fi", byGenre, nil},
		{"genre miss", "name", "Western", byGenre, domain.ErrGenreNotFound},
		{"director hit", "name", "Christopher Nolan", byDirector, nil},
		{"director miss", "name", "Nobody", byDirector, domain.ErrDirectorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/movies/x", "")
			c.SetParamNames(tt.param)
			c.SetParamValues(tt.value)

			err := tt.call(h)(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || rec.Code != http.StatusOK {
				t.Fatalf("err=%v code=%d", err, rec.Code)
			}
		})
	}
}
