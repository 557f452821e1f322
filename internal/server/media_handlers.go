package server

import (
	"io"

	"pixelaura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ThumbnailResponse is the API response after generating a thumbnail.
type ThumbnailResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UploadThumbnail handles POST /api/media/thumbnails
// @Summary Generate a webp thumbnail for an image
// @Tags media
// @Accept mpfd
// @Produce json
// @Success 201 {object} ThumbnailResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /media/thumbnails [post]
func (s *Server) UploadThumbnail(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	name, err := s.thumbnails.Put(content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(ThumbnailResponse{
		Name: name,
		URL:  "/media/" + name,
	})
}
