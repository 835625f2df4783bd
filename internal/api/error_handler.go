package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/myflix/movie-api/internal/api/handler"
	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string               `json:"error"`
	Fields []handler.FieldError `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, logger.FromContext(c.Request().Context(), log), c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: ve.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Every authentication failure looks the same from outside.
	if domain.IsAuthFailure(err) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized"}
	}

	switch {
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backing store unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrMovieNotFound):
		return http.StatusNotFound, errorResponse{Error: "movie not found"}
	case errors.Is(err, domain.ErrGenreNotFound):
		return http.StatusNotFound, errorResponse{Error: "genre not found"}
	case errors.Is(err, domain.ErrDirectorNotFound):
		return http.StatusNotFound, errorResponse{Error: "director not found"}
	case errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound, errorResponse{Error: "image not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusUnprocessableEntity, errorResponse{Error: "password exceeds 72 bytes"}
	case errors.Is(err, domain.ErrInvalidUserInput):
		return http.StatusBadRequest, errorResponse{Error: "invalid user input"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
