package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/myflix/movie-api/internal/core/ports"
)

type ImageHandler struct {
	store ports.ImageStore
}

func NewImageHandler(store ports.ImageStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// Get streams a stored movie image.
//
// @Summary      Get an image
// @Tags         images
// @Produce      octet-stream
// @Param        id   path      string  true  "Image ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /images/{id} [get]
func (h *ImageHandler) Get(c echo.Context) error {
	img, err := h.store.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer img.Body.Close()

	if img.Length > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(img.Length, 10))
	}
	return c.Stream(http.StatusOK, img.ContentType, img.Body)
}
