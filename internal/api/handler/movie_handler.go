package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/ports"
)

// MovieHandler serves the read-only catalog routes.
type MovieHandler struct {
	service ports.MovieService
}

func NewMovieHandler(service ports.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// List returns the whole catalog.
//
// @Summary      List movies
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Movie
// @Failure      401  {object}  errorResponse
// @Router       /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// GetByTitle returns one movie by exact title.
//
// @Summary      Get a movie by title
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        title  path      string  true  "Movie title"
// @Success      200    {object}  domain.Movie
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /movies/{title} [get]
func (h *MovieHandler) GetByTitle(c echo.Context) error {
	movie, err := h.service.GetByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// GetGenre describes a genre.
//
// @Summary      Get a genre
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Genre name"
// @Success      200   {object}  domain.Genre
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /movies/genres/{name} [get]
func (h *MovieHandler) GetGenre(c echo.Context) error {
	genre, err := h.service.GetGenre(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

// GetDirector describes a director.
//
// @Summary      Get a director
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Director name"
// @Success      200   {object}  domain.Director
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /movies/directors/{name} [get]
func (h *MovieHandler) GetDirector(c echo.Context) error {
	director, err := h.service.GetDirector(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, director)
}
