package server

import (
	"pixelaura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like
// @Summary Toggle a like on a post
// @Tags interactions
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.interactionService.ToggleLike(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// RepostPost handles POST /api/posts/:id/repost
// @Summary Toggle a repost of a post
// @Tags interactions
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/repost [post]
func (s *Server) RepostPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.interactionService.ToggleRepost(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// DownloadPost handles POST /api/posts/:id/download
// @Summary Count a download of a post's image
// @Tags interactions
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/download [post]
func (s *Server) DownloadPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if !s.featureFlags.Enabled("downloads", userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Downloads are currently disabled"))
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.interactionService.Download(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}
