package repository

import (
	"context"

	"creator-studio/domain/model"
)

// ISocialAccount defines persistence for platform connections.
// Upsert must be keyed by (user_id, platform) so concurrent connects for the
// same pair collapse into one row (last write wins).
type ISocialAccount interface {
	Upsert(ctx context.Context, account *model.SocialAccount) error
	Get(ctx context.Context, userID int64, platform string) (*model.SocialAccount, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.SocialAccount, error)
	// Disconnect blanks token, expiry and external id and sets connected=false.
	// Safe to call when the account is already disconnected or absent.
	Disconnect(ctx context.Context, userID int64, platform string) error
}
