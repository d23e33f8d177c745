package persistence

import (
	"context"
	"errors"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"

	"gorm.io/gorm"
)

type userRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Email      string `gorm:"size:255;uniqueIndex"`
	Name       string `gorm:"size:255"`
	Avatar     string `gorm:"size:512"`
	Role       string `gorm:"size:32"`
	Provider   string `gorm:"size:32"`
	ProviderID string `gorm:"size:128"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:         r.ID,
		Email:      r.Email,
		Name:       r.Name,
		Avatar:     r.Avatar,
		Role:       r.Role,
		Provider:   r.Provider,
		ProviderID: r.ProviderID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// UserRepositoryMySQL implements IUser on gorm/MySQL.
type UserRepositoryMySQL struct{ db *gorm.DB }

func NewUserRepositoryMySQL(db *gorm.DB) repository.IUser { return &UserRepositoryMySQL{db: db} }

func (r *UserRepositoryMySQL) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserRepositoryMySQL) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserRepositoryMySQL) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	row := userRow{
		Email:      user.Email,
		Name:       user.Name,
		Avatar:     user.Avatar,
		Role:       user.Role,
		Provider:   user.Provider,
		ProviderID: user.ProviderID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserRepositoryMySQL) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":        user.Name,
			"avatar":      user.Avatar,
			"provider":    user.Provider,
			"provider_id": user.ProviderID,
		}).Error
}

func (r *UserRepositoryMySQL) UpdateRole(ctx context.Context, id int64, role string) error {
	res := r.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryMySQL) List(ctx context.Context) ([]*model.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *UserRepositoryMySQL) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&socialAccountRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}
