// file: services/user_service.go
package services

import (
	"context"
	"fmt"

	"go-event-admin/models"
)

type UserService struct {
	api API
}

func NewUserService(api API) *UserService {
	return &UserService{api: api}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "auth/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	var out models.User
	err := s.api.Post(ctx, "auth/registrar", in, &out)
	return out, err
}

func (s *UserService) Update(ctx context.Context, id int, in models.UserInput) (models.User, error) {
	var out models.User
	err := s.api.Put(ctx, fmt.Sprintf("auth/actualizar/%d", id), in, &out)
	return out, err
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("auth/eliminar/%d", id), nil)
}
