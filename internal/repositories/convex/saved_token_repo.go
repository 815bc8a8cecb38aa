package convex

import (
	"context"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

type savedTokenRepo struct {
	c Caller
}

func NewSavedTokenRepo(c Caller) repositories.SavedTokens {
	return &savedTokenRepo{c: c}
}

func (r *savedTokenRepo) AddSavedToken(ctx context.Context, t models.NewSavedToken) (*models.SavedToken, error) {
	var out *models.SavedToken
	if err := r.c.Mutation(ctx, "savedTokens:addSavedToken", map[string]any{"token": t}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *savedTokenRepo) GetSavedToken(ctx context.Context, id, userID string) (*models.SavedToken, error) {
	var out *models.SavedToken
	if err := r.c.Query(ctx, "savedTokens:getSavedToken", map[string]any{"id": id, "userId": userID}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *savedTokenRepo) FindSavedTokensByUserID(ctx context.Context, userID string) ([]models.SavedToken, error) {
	var out []models.SavedToken
	err := r.c.Query(ctx, "savedTokens:findSavedTokensByUserId", map[string]any{"userId": userID}, &out)
	return out, err
}

func (r *savedTokenRepo) DeleteSavedToken(ctx context.Context, id, userID string) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, "savedTokens:deleteSavedToken", map[string]any{"id": id, "userId": userID}, &ok)
	return ok, err
}
