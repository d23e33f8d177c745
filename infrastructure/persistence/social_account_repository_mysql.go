package persistence

import (
	"context"
	"errors"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// socialAccountRow is the gorm mapping used by the MySQL vendor path.
type socialAccountRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UserID         int64  `gorm:"uniqueIndex:ux_social_accounts_user_platform"`
	Platform       string `gorm:"size:32;uniqueIndex:ux_social_accounts_user_platform"`
	Username       string `gorm:"size:255"`
	Connected      bool
	AccessToken    *string `gorm:"type:text"`
	TokenExpiresAt *time.Time
	ExternalID     *string `gorm:"size:128"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (socialAccountRow) TableName() string { return "social_accounts" }

func (r socialAccountRow) toModel() *model.SocialAccount {
	return &model.SocialAccount{
		ID:             r.ID,
		UserID:         r.UserID,
		Platform:       r.Platform,
		Username:       r.Username,
		Connected:      r.Connected,
		AccessToken:    r.AccessToken,
		TokenExpiresAt: r.TokenExpiresAt,
		ExternalID:     r.ExternalID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// SocialAccountRepositoryMySQL implements ISocialAccount on gorm/MySQL.
type SocialAccountRepositoryMySQL struct{ db *gorm.DB }

func NewSocialAccountRepositoryMySQL(db *gorm.DB) repository.ISocialAccount {
	return &SocialAccountRepositoryMySQL{db: db}
}

func (r *SocialAccountRepositoryMySQL) Upsert(ctx context.Context, a *model.SocialAccount) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	row := socialAccountRow{
		UserID:         a.UserID,
		Platform:       a.Platform,
		Username:       a.Username,
		Connected:      a.Connected,
		AccessToken:    a.AccessToken,
		TokenExpiresAt: a.TokenExpiresAt,
		ExternalID:     a.ExternalID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "connected", "access_token", "token_expires_at", "external_id", "updated_at",
		}),
	}).Create(&row).Error
}

func (r *SocialAccountRepositoryMySQL) Get(ctx context.Context, userID int64, platform string) (*model.SocialAccount, error) {
	var row socialAccountRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *SocialAccountRepositoryMySQL) ListByUser(ctx context.Context, userID int64) ([]*model.SocialAccount, error) {
	var rows []socialAccountRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("platform").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.SocialAccount, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *SocialAccountRepositoryMySQL) Disconnect(ctx context.Context, userID int64, platform string) error {
	return r.db.WithContext(ctx).Model(&socialAccountRow{}).
		Where("user_id = ? AND platform = ?", userID, platform).
		Updates(map[string]interface{}{
			"access_token":     nil,
			"token_expires_at": nil,
			"external_id":      nil,
			"connected":        false,
			"updated_at":       time.Now().UTC(),
		}).Error
}
