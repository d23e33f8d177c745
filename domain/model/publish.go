package model

import "time"

// Publish attempt outcomes.
const (
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"
)

// PublishRecord is an audit entry for one publish attempt, stored in Mongo
// when it is available. Best-effort only; losing a record never fails a
// publish.
type PublishRecord struct {
	UserID       int64     `json:"user_id"       bson:"user_id"`
	Platform     string    `json:"platform"      bson:"platform"`
	ImageURL     string    `json:"image_url"     bson:"image_url"`
	Caption      string    `json:"caption,omitempty" bson:"caption,omitempty"`
	Status       string    `json:"status"        bson:"status"`
	MediaID      string    `json:"media_id,omitempty" bson:"media_id,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"    bson:"created_at"`
}
