package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type SavedTokenService interface {
	AddSavedToken(ctx context.Context, t models.NewSavedToken) *models.SavedToken
	GetSavedToken(ctx context.Context, id, userID string) *models.SavedToken
	FindSavedTokensByUserID(ctx context.Context, userID string) []models.SavedToken
	DeleteSavedToken(ctx context.Context, id, userID string) bool
}

type savedTokenService struct {
	r *router
}

func NewSavedTokenService(b Backends, log logrus.FieldLogger) SavedTokenService {
	return &savedTokenService{r: newRouter(b, log)}
}

func (s *savedTokenService) AddSavedToken(ctx context.Context, t models.NewSavedToken) *models.SavedToken {
	return run(ctx, s.r, "SavedTokens.AddSavedToken", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.SavedToken, error) {
		return st.SavedTokens.AddSavedToken(ctx, t)
	})
}

func (s *savedTokenService) GetSavedToken(ctx context.Context, id, userID string) *models.SavedToken {
	return run(ctx, s.r, "SavedTokens.GetSavedToken", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.SavedToken, error) {
		return st.SavedTokens.GetSavedToken(ctx, id, userID)
	})
}

func (s *savedTokenService) FindSavedTokensByUserID(ctx context.Context, userID string) []models.SavedToken {
	return orEmpty(run(ctx, s.r, "SavedTokens.FindSavedTokensByUserID", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) ([]models.SavedToken, error) {
		return st.SavedTokens.FindSavedTokensByUserID(ctx, userID)
	}))
}

func (s *savedTokenService) DeleteSavedToken(ctx context.Context, id, userID string) bool {
	return run(ctx, s.r, "SavedTokens.DeleteSavedToken", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.SavedTokens.DeleteSavedToken(ctx, id, userID)
	})
}
