package convex

import (
	"context"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

type userRepo struct {
	c Caller
}

func NewUserRepo(c Caller) repositories.Users {
	return &userRepo{c: c}
}

func (r *userRepo) AddUser(ctx context.Context, u models.NewUser) (*models.User, error) {
	var out *models.User
	if err := r.c.Mutation(ctx, "users:addUser", map[string]any{"user": u}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out *models.User
	if err := r.c.Query(ctx, "users:getUser", map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, utils.ErrNotFound
	}
	return out, nil
}

func (r *userRepo) UpdateUsername(ctx context.Context, id, username string) (bool, error) {
	var ok bool
	err := r.c.Mutation(ctx, "users:updateUsername", map[string]any{"id": id, "username": username}, &ok)
	return ok, err
}
