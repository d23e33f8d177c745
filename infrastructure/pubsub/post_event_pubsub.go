package pubsub

import (
	"context"
	"encoding/json"
	"errors"

	"creator-studio/domain/repository"
	"creator-studio/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// NewPubSub connects to GCP Pub/Sub. Credentials come from the ambient
// service account.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id not configured")
	}
	return pubsub.NewClient(ctx, projectID)
}

// PostEventPubSub publishes post-published events to a GCP Pub/Sub topic.
type PostEventPubSub struct {
	client    *pubsub.Client
	topicName string
}

func NewPostEventPubSub(client *pubsub.Client, topicName string) repository.IPostEventNotifier {
	return &PostEventPubSub{client: client, topicName: topicName}
}

func (p *PostEventPubSub) PostPublished(ctx context.Context, event repository.PostPublishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if _, err = p.client.CreateTopic(ctx, p.topicName); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().
		WithField("server ID", serverID).
		WithField("media ID", event.MediaID).
		Info("Post-published event sent")
	return nil
}
