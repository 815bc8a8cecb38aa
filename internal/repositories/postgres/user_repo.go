package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) repositories.Users {
	return &userRepo{db: db}
}

func (r *userRepo) AddUser(ctx context.Context, u models.NewUser) (*models.User, error) {
	ts := now()
	row := userRow{ID: u.ID, Username: u.Username, CreatedAt: ts, UpdatedAt: ts}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.model(), nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return row.model(), nil
}

func (r *userRepo) UpdateUsername(ctx context.Context, id, username string) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Model(&userRow{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "updated_at": now()}))
}
