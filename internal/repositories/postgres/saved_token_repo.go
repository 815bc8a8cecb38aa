package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type savedTokenRepo struct {
	db *gorm.DB
}

func NewSavedTokenRepo(db *gorm.DB) repositories.SavedTokens {
	return &savedTokenRepo{db: db}
}

func (r *savedTokenRepo) AddSavedToken(ctx context.Context, t models.NewSavedToken) (*models.SavedToken, error) {
	row := savedTokenRow{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		Symbol:    t.Symbol,
		LogoURI:   t.LogoURI,
		Chain:     t.Chain,
		UpdatedAt: now(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	out := row.model()
	return &out, nil
}

func (r *savedTokenRepo) GetSavedToken(ctx context.Context, id, userID string) (*models.SavedToken, error) {
	var row savedTokenRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	out := row.model()
	return &out, nil
}

func (r *savedTokenRepo) FindSavedTokensByUserID(ctx context.Context, userID string) ([]models.SavedToken, error) {
	var rows []savedTokenRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.SavedToken, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *savedTokenRepo) DeleteSavedToken(ctx context.Context, id, userID string) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&savedTokenRow{}))
}
