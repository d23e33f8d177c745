package repository

import (
	"context"

	"creator-studio/domain/model"
)

// IUser defines the user persistence contract.
type IUser interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id int64, role string) error
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id int64) error
}
