package servicebus

import (
	"context"
	"encoding/json"
	"errors"

	"creator-studio/domain/repository"
	"creator-studio/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects to an Azure Service Bus namespace using the default
// credential chain.
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, errors.New("service bus namespace not configured")
	}
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, credential, nil)
}

// PostEventServiceBus publishes post-published events to an Azure Service Bus
// queue.
type PostEventServiceBus struct {
	client *azservicebus.Client
	queue  string
}

func NewPostEventServiceBus(client *azservicebus.Client, queue string) repository.IPostEventNotifier {
	return &PostEventServiceBus{client: client, queue: queue}
}

func (s *PostEventServiceBus) PostPublished(ctx context.Context, event repository.PostPublishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
