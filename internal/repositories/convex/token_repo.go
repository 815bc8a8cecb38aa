package convex

import (
	"context"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

type tokenRepo struct {
	c Caller
}

func NewTokenRepo(c Caller) repositories.Tokens {
	return &tokenRepo{c: c}
}

func (r *tokenRepo) AddToken(ctx context.Context, t models.TokenInput) (*models.Token, error) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	var out *models.Token
	if err := r.c.Mutation(ctx, "tokens:addToken", map[string]any{"token": t}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *tokenRepo) GetToken(ctx context.Context, id string) (*models.Token, error) {
	var out *models.Token
	if err := r.c.Query(ctx, "tokens:getToken", map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *tokenRepo) FindTokens(ctx context.Context) ([]models.Token, error) {
	var out []models.Token
	err := r.c.Query(ctx, "tokens:findTokens", nil, &out)
	return out, err
}

func (r *tokenRepo) FindTokensBySymbol(ctx context.Context, symbol string) ([]models.Token, error) {
	var out []models.Token
	err := r.c.Query(ctx, "tokens:findTokensBySymbol", map[string]any{"symbol": symbol}, &out)
	return out, err
}

func (r *tokenRepo) DeleteToken(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, "tokens:deleteToken", map[string]any{"id": id}, &ok)
	return ok, err
}
