package convex

import (
	"context"
	"encoding/json"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

type chatRepo struct {
	c Caller
}

func NewChatRepo(c Caller) repositories.Chats {
	return &chatRepo{c: c}
}

func (r *chatRepo) AddChat(ctx context.Context, chat models.NewChat) (*models.Chat, error) {
	if chat.Messages == nil {
		chat.Messages = []json.RawMessage{}
	}
	var out *models.Chat
	if err := r.c.Mutation(ctx, "chats:addChat", map[string]any{"chat": chat}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *chatRepo) GetChat(ctx context.Context, id, userID string) (*models.Chat, error) {
	var out *models.Chat
	if err := r.c.Query(ctx, "chats:getChat", map[string]any{"id": id, "userId": userID}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *chatRepo) FindChatsByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var out []models.Chat
	err := r.c.Query(ctx, "chats:findChatsByUser", map[string]any{"userId": userID}, &out)
	return out, err
}

func (r *chatRepo) UpdateChatTagline(ctx context.Context, id, userID, tagline string) (bool, error) {
	return r.mutate(ctx, "chats:updateChatTagline", map[string]any{"id": id, "userId": userID, "tagline": tagline})
}

func (r *chatRepo) UpdateChatChain(ctx context.Context, id, userID, chain string) (bool, error) {
	return r.mutate(ctx, "chats:updateChatChain", map[string]any{"id": id, "userId": userID, "chain": chain})
}

func (r *chatRepo) AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) (bool, error) {
	return r.mutate(ctx, "chats:addMessageToChat", map[string]any{"id": id, "userId": userID, "message": message})
}

func (r *chatRepo) UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) (bool, error) {
	args := map[string]any{"id": id, "userId": userID, "messages": messages}
	if chain != nil {
		args["chain"] = *chain
	}
	return r.mutate(ctx, "chats:updateChatMessages", args)
}

func (r *chatRepo) DeleteChat(ctx context.Context, id, userID string) (bool, error) {
	return r.mutate(ctx, "chats:deleteChat", map[string]any{"id": id, "userId": userID})
}

func (r *chatRepo) mutate(ctx context.Context, path string, args map[string]any) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, path, args, &ok)
	return ok, err
}
