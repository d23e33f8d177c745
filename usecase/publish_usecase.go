package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/logger"
	"creator-studio/infrastructure/security"
)

const (
	publishAttempts = 5
	publishDelay    = 2 * time.Second
)

// Sleeper waits for d unless the context ends first. Tests substitute a fake
// so the retry loop runs instantly.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type IPublish interface {
	// Publish stages an image post on the user's Instagram account and
	// returns the published media id.
	Publish(ctx context.Context, userID int64, imageURL, caption string) (string, error)
	// History returns the most recent publish audit records for the user.
	History(ctx context.Context, userID int64, limit int64) ([]*model.PublishRecord, error)
}

type publishUsecase struct {
	graph       repository.IMetaGraph
	accountRepo repository.ISocialAccount
	recordRepo  repository.IPublishRecord // nil when Mongo is absent
	notifiers   []repository.IPostEventNotifier
	cipher      *security.TokenCipher
	sleep       Sleeper
	now         func() time.Time
}

func NewPublishUsecase(
	graph repository.IMetaGraph,
	accountRepo repository.ISocialAccount,
	recordRepo repository.IPublishRecord,
	notifiers []repository.IPostEventNotifier,
	cipher *security.TokenCipher,
	sleeper ...Sleeper, // optional, tests substitute a fake
) IPublish {
	pu := &publishUsecase{
		graph:       graph,
		accountRepo: accountRepo,
		recordRepo:  recordRepo,
		notifiers:   notifiers,
		cipher:      cipher,
		sleep:       defaultSleeper,
		now:         time.Now,
	}
	if len(sleeper) > 0 {
		pu.sleep = sleeper[0]
	}
	return pu
}

func validImageURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func (u *publishUsecase) Publish(ctx context.Context, userID int64, imageURL, caption string) (string, error) {
	if userID == 0 {
		return "", model.ErrUnauthenticated
	}
	if imageURL == "" || !validImageURL(imageURL) {
		return "", fmt.Errorf("%w: imageUrl must be an absolute http(s) URL", model.ErrInvalidInput)
	}

	account, err := u.usableAccount(ctx, userID)
	if err != nil {
		return "", err
	}
	token := u.cipher.Decrypt(*account.AccessToken)
	if token == "" {
		return "", model.ErrNotConnected
	}
	igUserID := *account.ExternalID

	containerID, err := u.graph.CreateImageContainer(ctx, igUserID, token, imageURL, caption)
	if err != nil {
		u.record(ctx, userID, imageURL, caption, "", err)
		return "", err
	}

	mediaID, err := u.publishWithRetry(ctx, igUserID, token, containerID)
	u.record(ctx, userID, imageURL, caption, mediaID, err)
	if err != nil {
		return "", err
	}

	u.notify(ctx, repository.PostPublishedEvent{
		UserID:      userID,
		Platform:    model.PlatformInstagram,
		MediaID:     mediaID,
		ImageURL:    imageURL,
		PublishedAt: u.now(),
	})
	return mediaID, nil
}

// publishWithRetry finalizes a container. Instagram processes containers
// asynchronously, so the first attempts commonly fail while the media is
// still being fetched.
func (u *publishUsecase) publishWithRetry(ctx context.Context, igUserID, token, containerID string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		mediaID, err := u.graph.PublishContainer(ctx, igUserID, token, containerID)
		if err == nil {
			return mediaID, nil
		}
		lastErr = err
		logger.GetLogger().
			WithField("attempt", attempt).
			WithField("error", err).
			Warn("Publish attempt failed")
		if attempt < publishAttempts {
			if sleepErr := u.sleep(ctx, publishDelay); sleepErr != nil {
				return "", sleepErr
			}
		}
	}
	return "", lastErr
}

func (u *publishUsecase) usableAccount(ctx context.Context, userID int64) (*model.SocialAccount, error) {
	account, err := u.accountRepo.Get(ctx, userID, model.PlatformInstagram)
	if err != nil {
		return nil, model.ErrNotConnected
	}
	if !account.Usable(u.now()) || account.ExternalID == nil || *account.ExternalID == "" {
		return nil, model.ErrNotConnected
	}
	return account, nil
}

// record stores the audit entry; losing it never fails the publish.
func (u *publishUsecase) record(ctx context.Context, userID int64, imageURL, caption, mediaID string, publishErr error) {
	if u.recordRepo == nil {
		return
	}
	rec := &model.PublishRecord{
		UserID:    userID,
		Platform:  model.PlatformInstagram,
		ImageURL:  imageURL,
		Caption:   caption,
		Status:    model.PublishStatusPublished,
		MediaID:   mediaID,
		CreatedAt: u.now(),
	}
	if publishErr != nil {
		rec.Status = model.PublishStatusFailed
		rec.ErrorMessage = publishErr.Error()
	}
	if err := u.recordRepo.Insert(ctx, rec); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to store publish record")
	}
}

func (u *publishUsecase) notify(ctx context.Context, event repository.PostPublishedEvent) {
	for _, n := range u.notifiers {
		if err := n.PostPublished(ctx, event); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to publish post event")
		}
	}
}

func (u *publishUsecase) History(ctx context.Context, userID int64, limit int64) ([]*model.PublishRecord, error) {
	if userID == 0 {
		return nil, model.ErrUnauthenticated
	}
	if u.recordRepo == nil {
		return []*model.PublishRecord{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return u.recordRepo.RecentByUser(ctx, userID, limit)
}
