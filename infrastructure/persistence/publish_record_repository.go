package persistence

import (
	"context"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PublishRecordRepository stores the publish audit trail in MongoDB.
type PublishRecordRepository struct {
	coll *mongo.Collection
}

func NewPublishRecordRepository(client *mongo.Client, database string) repository.IPublishRecord {
	return &PublishRecordRepository{
		coll: client.Database(database).Collection("publish_records"),
	}
}

func (r *PublishRecordRepository) Insert(ctx context.Context, rec *model.PublishRecord) error {
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}

func (r *PublishRecordRepository) RecentByUser(ctx context.Context, userID int64, limit int64) ([]*model.PublishRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*model.PublishRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
