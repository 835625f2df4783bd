package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/ports"
)

// UserHandler handles account and favorites routes.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new account.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return err
	}

	identity, err := h.service.Register(c.Request().Context(), ports.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: birthday,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user created",
		User:    toUserResponse(identity),
	})
}

// Get returns a user's public profile.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	identity, err := h.service.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(identity))
}

// Update applies a partial profile update to the caller's own account.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateUserRequest  true  "Fields to change"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /users/{username} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return err
		}
		input.Birthday = &birthday
	}

	identity, err := h.service.Update(c.Request().Context(), c.Param("username"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(identity))
}

// Delete removes the caller's own account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messageResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	username := c.Param("username")
	if err := h.service.Delete(c.Request().Context(), username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: username + " was deleted"})
}

// AddFavorite adds a movie to the caller's favorites.
//
// @Summary      Add a favorite movie
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Param        movie_id  path      string  true  "Movie ID"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/movies/{movie_id} [post]
func (h *UserHandler) AddFavorite(c echo.Context) error {
	identity, err := h.service.AddFavorite(c.Request().Context(), c.Param("username"), c.Param("movie_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(identity))
}

// RemoveFavorite removes a movie from the caller's favorites.
//
// @Summary      Remove a favorite movie
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Param        movie_id  path      string  true  "Movie ID"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /users/{username}/movies/{movie_id} [delete]
func (h *UserHandler) RemoveFavorite(c echo.Context) error {
	identity, err := h.service.RemoveFavorite(c.Request().Context(), c.Param("username"), c.Param("movie_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(identity))
}
