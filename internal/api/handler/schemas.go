package handler

import (
	"time"

	"github.com/myflix/movie-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

// --- Users ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=5,alphanum"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Email    string `json:"email"    validate:"required,email"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// updateUserRequest is a partial update; absent fields are left unchanged.
type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=5,alphanum"`
	Password *string `json:"password" validate:"omitempty,maxbytes=72"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

type userResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Birthday  string   `json:"birthday,omitempty"`
	Favorites []string `json:"favorites"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func toUserResponse(id *domain.Identity) userResponse {
	favs := id.Favorites
	if favs == nil {
		favs = []string{}
	}
	resp := userResponse{
		ID:        id.ID,
		Username:  id.Username,
		Email:     id.Email,
		Favorites: favs,
	}
	if !id.Birthday.IsZero() {
		resp.Birthday = id.Birthday.Format(domain.BirthdayLayout)
	}
	return resp
}

func parseBirthday(s string) (time.Time, error) {
	t, err := time.Parse(domain.BirthdayLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: []FieldError{{
			Field:   "birthday",
			Message: "birthday must be a date formatted YYYY-MM-DD",
		}}}
	}
	return t, nil
}

// --- Health ---

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
