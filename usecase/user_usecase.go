package usecase

import (
	"context"
	"fmt"

	"creator-studio/domain/dto"
	"creator-studio/domain/model"
	"creator-studio/domain/repository"
)

type IUserUsecase interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func validRole(role string) bool {
	switch role {
	case model.RoleUser, model.RoleAdmin, model.RoleSuperAdmin:
		return true
	}
	return false
}

func (u *userUsecase) Get(ctx context.Context, id int64) (*model.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *userUsecase) List(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.List(ctx)
}

func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !validRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, role)
	}
	return u.userRepo.Create(ctx, &model.User{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: req.Avatar,
		Role:   role,
	})
}

func (u *userUsecase) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*model.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, *req.Role)
		}
		user.Role = *req.Role
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUsecase) Delete(ctx context.Context, id int64) error {
	return u.userRepo.Delete(ctx, id)
}
