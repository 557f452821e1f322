package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixelaura/internal/models"
	"pixelaura/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository is a mock of the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Send(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ConversationBetween(ctx context.Context, viewerID, peerID uint, limit, offset int) ([]*models.Message, error) {
	args := m.Called(ctx, viewerID, peerID, limit, offset)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, viewerID, peerID uint) error {
	args := m.Called(ctx, viewerID, peerID)
	return args.Error(0)
}

func (m *MockMessageRepository) Conversations(ctx context.Context, viewerID uint) ([]models.Conversation, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func newMessageTestApp(msgRepo *MockMessageRepository, userRepo *MockUserRepository) *fiber.App {
	s := &Server{
		messageService: service.NewMessageService(msgRepo, userRepo, nil),
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/messages/conversations", s.GetConversations)
	app.Get("/messages/:userId", s.GetConversation)
	app.Post("/messages/:userId", s.SendMessage)
	return app
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           map[string]string
		mockSetup      func(msgRepo *MockMessageRepository, userRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			url:  "/messages/2",
			body: map[string]string{"content": "hey there"},
			mockSetup: func(msgRepo *MockMessageRepository, userRepo *MockUserRepository) {
				userRepo.On("GetByID", mock.Anything, uint(2)).
					Return(&models.User{ID: 2, Username: "Bob"}, nil)
				msgRepo.On("Send", mock.Anything, mock.MatchedBy(func(msg *models.Message) bool {
					return msg.SenderID == 1 && msg.ReceiverID == 2 && msg.Content == "hey there"
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty Content",
			url:            "/messages/2",
			body:           map[string]string{"content": "   "},
			mockSetup:      func(msgRepo *MockMessageRepository, userRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Message Yourself",
			url:            "/messages/1",
			body:           map[string]string{"content": "hi me"},
			mockSetup:      func(msgRepo *MockMessageRepository, userRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown Receiver",
			url:  "/messages/99",
			body: map[string]string{"content": "hello?"},
			mockSetup: func(msgRepo *MockMessageRepository, userRepo *MockUserRepository) {
				userRepo.On("GetByID", mock.Anything, uint(99)).
					Return(nil, models.NewNotFoundError("User", uint(99)))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgRepo := new(MockMessageRepository)
			userRepo := new(MockUserRepository)
			app := newMessageTestApp(msgRepo, userRepo)
			tt.mockSetup(msgRepo, userRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			msgRepo.AssertExpectations(t)
		})
	}
}

func TestGetConversation(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	userRepo := new(MockUserRepository)
	app := newMessageTestApp(msgRepo, userRepo)

	// Opening the conversation marks it read before loading
	msgRepo.On("MarkConversationRead", mock.Anything, uint(1), uint(2)).Return(nil)
	msgRepo.On("ConversationBetween", mock.Anything, uint(1), uint(2), 50, 0).
		Return([]*models.Message{{ID: 1, SenderID: 2, ReceiverID: 1, Content: "hi"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/2", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	msgRepo.AssertExpectations(t)
}

func TestGetConversations(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	app := newMessageTestApp(msgRepo, new(MockUserRepository))

	msgRepo.On("Conversations", mock.Anything, uint(1)).
		Return([]models.Conversation{{PeerID: 2, UnreadCount: 3}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/conversations", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	msgRepo.AssertExpectations(t)
}
