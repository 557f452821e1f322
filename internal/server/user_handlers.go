package server

import (
	"strings"

	"pixelaura/internal/models"
	"pixelaura/internal/repository"
	"pixelaura/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Update display fields. Username or picture changes enqueue a propagation job.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Username       *string `json:"username"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
		Header         *string `json:"header"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	user, err := s.userRepo.UpdateProfile(c.UserContext(), userID, repository.ProfileUpdate{
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		Header:         req.Header,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(user)
}

// GetMyPropagations handles GET /api/users/me/propagations
// @Summary List own profile propagation jobs
// @Tags users
// @Produce json
// @Success 200 {array} models.ProfilePropagation
// @Router /users/me/propagations [get]
func (s *Server) GetMyPropagations(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	jobs, err := s.propagationRepo.ListForUser(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(jobs)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user's profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if viewerID := currentUserID(c); viewerID != 0 && viewerID != id {
		followed, followErr := s.socialService.IsFollowing(c.UserContext(), viewerID, id)
		if followErr != nil {
			return models.RespondWithError(c, mapServiceError(followErr), followErr)
		}
		user.Followed = followed
	}
	return c.JSON(user)
}

// GetSuggestedUsers handles GET /api/users
// @Summary List users to follow
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	users, err := s.socialService.Suggestions(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(users)
}

// SearchUsers handles GET /api/users/search?q=...
// @Summary Search users by name or handle
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.User
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	userID := currentUserID(c)
	q := strings.TrimSpace(c.Query("q"))
	page := parsePagination(c, 20)

	users, err := s.socialService.SearchUsers(c.UserContext(), userID, q, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(users)
}

// ToggleFollow handles POST /api/users/:id/follow
// @Summary Toggle following a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	following, err := s.socialService.ToggleFollow(c.UserContext(), userID, followeeID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetMyFollowing handles GET /api/users/me/following
// @Summary List who the current user follows
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users/me/following [get]
func (s *Server) GetMyFollowing(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	users, err := s.socialService.Following(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	users, err := s.socialService.Following(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(users)
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	users, err := s.socialService.Followers(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(users)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's original posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Post
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	viewerID := currentUserID(c)

	posts, err := s.postService.GetUserPosts(c.UserContext(), id, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(posts)
}

// GetUserTimeline handles GET /api/users/:id/timeline
// @Summary Get a user's merged timeline of posts and reposts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} service.TimelineEntry
// @Router /users/{id}/timeline [get]
func (s *Server) GetUserTimeline(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	viewerID := currentUserID(c)

	entries, err := s.postService.Timeline(c.UserContext(), id, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(entries)
}
