package server

import (
	"pixelaura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages/:userId
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Param userId path int true "Receiver user ID"
// @Param request body object{content=string} true "Message content"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{userId} [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	receiverID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Send(c.UserContext(), userID, receiverID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetConversation handles GET /api/messages/:userId
// @Summary Get the message history with a user
// @Description Opening a conversation marks the peer's messages as read.
// @Tags messages
// @Produce json
// @Param userId path int true "Peer user ID"
// @Success 200 {array} models.Message
// @Router /messages/{userId} [get]
func (s *Server) GetConversation(c *fiber.Ctx) error {
	peerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)
	page := parsePagination(c, 50)

	messages, err := s.messageService.Conversation(c.UserContext(), userID, peerID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(messages)
}

// GetConversations handles GET /api/messages/conversations
// @Summary List conversations with latest message and unread counts
// @Tags messages
// @Produce json
// @Success 200 {array} models.Conversation
// @Router /messages/conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := currentUserID(c)

	conversations, err := s.messageService.Conversations(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(conversations)
}
