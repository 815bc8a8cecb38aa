package postgres

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) repositories.Chats {
	return &chatRepo{db: db}
}

func (r *chatRepo) AddChat(ctx context.Context, c models.NewChat) (*models.Chat, error) {
	msgs, err := encodeMessages(c.Messages)
	if err != nil {
		return nil, err
	}
	row := chatRow{
		ID:        c.ID,
		UserID:    c.UserID,
		Messages:  msgs,
		Tagline:   c.Tagline,
		Chain:     c.Chain,
		UpdatedAt: now(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out, err := row.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepo) GetChat(ctx context.Context, id, userID string) (*models.Chat, error) {
	var row chatRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	out, err := row.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepo) FindChatsByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var rows []chatRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Chat, 0, len(rows))
	for _, row := range rows {
		c, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *chatRepo) UpdateChatTagline(ctx context.Context, id, userID, tagline string) (bool, error) {
	return r.update(ctx, id, userID, map[string]any{"tagline": tagline})
}

func (r *chatRepo) UpdateChatChain(ctx context.Context, id, userID, chain string) (bool, error) {
	return r.update(ctx, id, userID, map[string]any{"chain": chain})
}

func (r *chatRepo) AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) (bool, error) {
	// jsonb || wraps a scalar right operand, so pass a one-element array.
	appended, err := encodeMessages([]json.RawMessage{message})
	if err != nil {
		return false, err
	}
	return r.update(ctx, id, userID, map[string]any{
		"messages": gorm.Expr("COALESCE(messages, '[]'::jsonb) || ?::jsonb", string(appended)),
	})
}

func (r *chatRepo) UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) (bool, error) {
	msgs, err := encodeMessages(messages)
	if err != nil {
		return false, err
	}
	fields := map[string]any{"messages": msgs}
	if chain != nil {
		fields["chain"] = *chain
	}
	return r.update(ctx, id, userID, fields)
}

func (r *chatRepo) DeleteChat(ctx context.Context, id, userID string) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&chatRow{}))
}

func (r *chatRepo) update(ctx context.Context, id, userID string, fields map[string]any) (bool, error) {
	fields["updated_at"] = now()
	return affected(r.db.WithContext(ctx).
		Model(&chatRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields))
}
