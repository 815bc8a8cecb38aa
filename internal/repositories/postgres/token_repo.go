package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type tokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) repositories.Tokens {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) AddToken(ctx context.Context, t models.TokenInput) (*models.Token, error) {
	tok := t.Stamp(now())
	row, err := newTokenRow(tok)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *tokenRepo) GetToken(ctx context.Context, id string) (*models.Token, error) {
	var row tokenRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	tok, err := row.model()
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *tokenRepo) FindTokens(ctx context.Context) ([]models.Token, error) {
	var rows []tokenRow
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tokenModels(rows)
}

func (r *tokenRepo) FindTokensBySymbol(ctx context.Context, symbol string) ([]models.Token, error) {
	var rows []tokenRow
	err := r.db.WithContext(ctx).
		Where("symbol_lower = ?", strings.ToLower(symbol)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return tokenModels(rows)
}

func (r *tokenRepo) DeleteToken(ctx context.Context, id string) (bool, error) {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&tokenRow{}))
}
