package services

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type ChatService interface {
	AddChat(ctx context.Context, c models.NewChat) *models.Chat
	GetChat(ctx context.Context, id, userID string) *models.Chat
	FindChatsByUser(ctx context.Context, userID string) []models.Chat
	UpdateChatTagline(ctx context.Context, id, userID, tagline string) bool
	UpdateChatChain(ctx context.Context, id, userID, chain string) bool
	AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) bool
	UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) bool
	DeleteChat(ctx context.Context, id, userID string) bool
}

type chatService struct {
	r *router
}

func NewChatService(b Backends, log logrus.FieldLogger) ChatService {
	return &chatService{r: newRouter(b, log)}
}

func (s *chatService) AddChat(ctx context.Context, c models.NewChat) *models.Chat {
	return run(ctx, s.r, "Chats.AddChat", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Chat, error) {
		return st.Chats.AddChat(ctx, c)
	})
}

func (s *chatService) GetChat(ctx context.Context, id, userID string) *models.Chat {
	return run(ctx, s.r, "Chats.GetChat", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Chat, error) {
		return st.Chats.GetChat(ctx, id, userID)
	})
}

func (s *chatService) FindChatsByUser(ctx context.Context, userID string) []models.Chat {
	return orEmpty(run(ctx, s.r, "Chats.FindChatsByUser", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.Chat, error) {
		return st.Chats.FindChatsByUser(ctx, userID)
	}))
}

func (s *chatService) UpdateChatTagline(ctx context.Context, id, userID, tagline string) bool {
	return run(ctx, s.r, "Chats.UpdateChatTagline", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Chats.UpdateChatTagline(ctx, id, userID, tagline)
	})
}

func (s *chatService) UpdateChatChain(ctx context.Context, id, userID, chain string) bool {
	return run(ctx, s.r, "Chats.UpdateChatChain", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Chats.UpdateChatChain(ctx, id, userID, chain)
	})
}

func (s *chatService) AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) bool {
	return run(ctx, s.r, "Chats.AddMessageToChat", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Chats.AddMessageToChat(ctx, id, userID, message)
	})
}

func (s *chatService) UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) bool {
	return run(ctx, s.r, "Chats.UpdateChatMessages", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Chats.UpdateChatMessages(ctx, id, userID, messages, chain)
	})
}

func (s *chatService) DeleteChat(ctx context.Context, id, userID string) bool {
	return run(ctx, s.r, "Chats.DeleteChat", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Chats.DeleteChat(ctx, id, userID)
	})
}
