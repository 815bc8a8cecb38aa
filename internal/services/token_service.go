package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type TokenService interface {
	AddToken(ctx context.Context, t models.TokenInput) *models.Token
	GetToken(ctx context.Context, id string) *models.Token
	FindTokens(ctx context.Context) []models.Token
	FindTokensBySymbol(ctx context.Context, symbol string) []models.Token
	// GetTokenBySymbol prefers a verified token, then a community one, then
	// the first match.
	GetTokenBySymbol(ctx context.Context, symbol string) *models.Token
	DeleteToken(ctx context.Context, id string) bool
}

type tokenService struct {
	r *router
}

func NewTokenService(b Backends, log logrus.FieldLogger) TokenService {
	return &tokenService{r: newRouter(b, log)}
}

func (s *tokenService) AddToken(ctx context.Context, t models.TokenInput) *models.Token {
	return run(ctx, s.r, "Tokens.AddToken", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Token, error) {
		return st.Tokens.AddToken(ctx, t)
	})
}

func (s *tokenService) GetToken(ctx context.Context, id string) *models.Token {
	return run(ctx, s.r, "Tokens.GetToken", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.Token, error) {
		return st.Tokens.GetToken(ctx, id)
	})
}

func (s *tokenService) FindTokens(ctx context.Context) []models.Token {
	return orEmpty(run(ctx, s.r, "Tokens.FindTokens", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.Token, error) {
		return st.Tokens.FindTokens(ctx)
	}))
}

func (s *tokenService) FindTokensBySymbol(ctx context.Context, symbol string) []models.Token {
	return orEmpty(run(ctx, s.r, "Tokens.FindTokensBySymbol", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.Token, error) {
		return st.Tokens.FindTokensBySymbol(ctx, symbol)
	}))
}

func (s *tokenService) GetTokenBySymbol(ctx context.Context, symbol string) *models.Token {
	return models.PickBySymbol(s.FindTokensBySymbol(ctx, symbol))
}

func (s *tokenService) DeleteToken(ctx context.Context, id string) bool {
	return run(ctx, s.r, "Tokens.DeleteToken", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Tokens.DeleteToken(ctx, id)
	})
}
