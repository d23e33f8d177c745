package repository

import (
	"context"
	"time"
)

// PostPublishedEvent is emitted after a post lands on a platform.
type PostPublishedEvent struct {
	UserID      int64     `json:"user_id"`
	Platform    string    `json:"platform"`
	MediaID     string    `json:"media_id"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
}

// IPostEventNotifier fans a published-post event out to a message broker.
// Delivery is best effort; publish results never depend on it.
type IPostEventNotifier interface {
	PostPublished(ctx context.Context, event PostPublishedEvent) error
}
