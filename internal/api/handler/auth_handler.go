package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/api/metrics"
	"github.com/myflix/movie-api/internal/core/domain"
	"github.com/myflix/movie-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges a username and password for a bearer token.
//
// @Summary      Login
// @Description  Every rejection is reported identically; the cause is only logged.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, identity, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		if !domain.IsAuthFailure(err) {
			// store outages, deadlines and signing failures go to the error handler
			return err
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unauthorized"})
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{User: toUserResponse(identity), Token: token})
}
