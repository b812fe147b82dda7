package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// UserService is thin CRUD over the user store; email uniqueness is
// enforced by the store.
type UserService struct {
	store  domain.UserStore
	logger *zerolog.Logger
}

func NewUserService(store domain.UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	return s.store.UpdateUser(ctx, id, upd)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.store.AllUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Int64("user_id", id).Msg("user deleted")
	return nil
}
