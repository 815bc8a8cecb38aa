package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

type UserService interface {
	AddUser(ctx context.Context, u models.NewUser) *models.User
	GetUser(ctx context.Context, id string) *models.User
	UpdateUsername(ctx context.Context, id, username string) bool
	// EnsureUser returns the stored user, creating it on first sight.
	EnsureUser(ctx context.Context, id, username string) *models.User
}

type userService struct {
	r *router
}

func NewUserService(b Backends, log logrus.FieldLogger) UserService {
	return &userService{r: newRouter(b, log)}
}

func (s *userService) AddUser(ctx context.Context, u models.NewUser) *models.User {
	return run(ctx, s.r, "Users.AddUser", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.User, error) {
		return st.Users.AddUser(ctx, u)
	})
}

func (s *userService) GetUser(ctx context.Context, id string) *models.User {
	return run(ctx, s.r, "Users.GetUser", primaryOnly, nil, func(ctx context.Context, st *repositories.Set) (*models.User, error) {
		return st.Users.GetUser(ctx, id)
	})
}

func (s *userService) UpdateUsername(ctx context.Context, id, username string) bool {
	return run(ctx, s.r, "Users.UpdateUsername", primaryOnly, false, func(ctx context.Context, st *repositories.Set) (bool, error) {
		return st.Users.UpdateUsername(ctx, id, username)
	})
}

func (s *userService) EnsureUser(ctx context.Context, id, username string) *models.User {
	if u := s.GetUser(ctx, id); u != nil {
		return u
	}
	return s.AddUser(ctx, models.NewUser{ID: id, Username: username})
}
