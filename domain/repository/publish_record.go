package repository

import (
	"context"

	"creator-studio/domain/model"
)

// IPublishRecord stores the publish audit trail. Implementations may be
// absent at runtime (no Mongo); callers treat writes as best-effort.
type IPublishRecord interface {
	Insert(ctx context.Context, rec *model.PublishRecord) error
	RecentByUser(ctx context.Context, userID int64, limit int64) ([]*model.PublishRecord, error)
}
