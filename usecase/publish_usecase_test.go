package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/security"
	"creator-studio/usecase"
)

type MockMetaGraph struct {
	mock.Mock
}

func (m *MockMetaGraph) ExchangeCode(ctx context.Context, redirectURI, code string) (string, error) {
	args := m.Called(ctx, redirectURI, code)
	return args.String(0), args.Error(1)
}

func (m *MockMetaGraph) FindInstagramPage(ctx context.Context, userToken string) (*repository.InstagramPage, error) {
	args := m.Called(ctx, userToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.InstagramPage), args.Error(1)
}

func (m *MockMetaGraph) ExchangeLongLived(ctx context.Context, token string) (string, int64, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockMetaGraph) GetUsername(ctx context.Context, igUserID, token string) (string, error) {
	args := m.Called(ctx, igUserID, token)
	return args.String(0), args.Error(1)
}

func (m *MockMetaGraph) GetProfile(ctx context.Context, igUserID, token string) (*repository.InstagramProfile, error) {
	args := m.Called(ctx, igUserID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.InstagramProfile), args.Error(1)
}

func (m *MockMetaGraph) CreateImageContainer(ctx context.Context, igUserID, token, imageURL, caption string) (string, error) {
	args := m.Called(ctx, igUserID, token, imageURL, caption)
	return args.String(0), args.Error(1)
}

func (m *MockMetaGraph) PublishContainer(ctx context.Context, igUserID, token, containerID string) (string, error) {
	args := m.Called(ctx, igUserID, token, containerID)
	return args.String(0), args.Error(1)
}

type MockSocialAccountRepo struct {
	mock.Mock
}

func (m *MockSocialAccountRepo) Upsert(ctx context.Context, account *model.SocialAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockSocialAccountRepo) Get(ctx context.Context, userID int64, platform string) (*model.SocialAccount, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepo) ListByUser(ctx context.Context, userID int64) ([]*model.SocialAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SocialAccount), args.Error(1)
}

func (m *MockSocialAccountRepo) Disconnect(ctx context.Context, userID int64, platform string) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}

// fakeSleeper records the requested delays without sleeping.
type fakeSleeper struct {
	delays []time.Duration
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newTestCipher(t *testing.T) *security.TokenCipher {
	t.Helper()
	cipher, err := security.NewTokenCipher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return cipher
}

func connectedAccount(t *testing.T, cipher *security.TokenCipher) *model.SocialAccount {
	t.Helper()
	token, err := cipher.Encrypt("page-token")
	require.NoError(t, err)
	igID := "ig-42"
	expiry := time.Now().Add(24 * time.Hour)
	return &model.SocialAccount{
		UserID:         7,
		Platform:       model.PlatformInstagram,
		Username:       "creator",
		Connected:      true,
		AccessToken:    &token,
		TokenExpiresAt: &expiry,
		ExternalID:     &igID,
	}
}

func TestPublish_InvalidImageURL(t *testing.T) {
	cipher := newTestCipher(t)
	pu := usecase.NewPublishUsecase(new(MockMetaGraph), new(MockSocialAccountRepo), nil, nil, cipher)

	for _, bad := range []string{"", "not a url", "ftp://example.com/a.jpg", "/relative/path.jpg"} {
		_, err := pu.Publish(context.Background(), 7, bad, "caption")
		assert.ErrorIs(t, err, model.ErrInvalidInput, "imageUrl=%q", bad)
	}
}

func TestPublish_NotConnected(t *testing.T) {
	cipher := newTestCipher(t)
	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(nil, model.ErrNotFound)

	pu := usecase.NewPublishUsecase(new(MockMetaGraph), accountRepo, nil, nil, cipher)
	_, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "caption")
	assert.ErrorIs(t, err, model.ErrNotConnected)
}

func TestPublish_ExpiredTokenIsNotConnected(t *testing.T) {
	cipher := newTestCipher(t)
	account := connectedAccount(t, cipher)
	expired := time.Now().Add(-time.Hour)
	account.TokenExpiresAt = &expired

	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(account, nil)

	pu := usecase.NewPublishUsecase(new(MockMetaGraph), accountRepo, nil, nil, cipher)
	_, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "caption")
	assert.ErrorIs(t, err, model.ErrNotConnected)
}

func TestPublish_SucceedsAfterRetries(t *testing.T) {
	cipher := newTestCipher(t)
	account := connectedAccount(t, cipher)

	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(account, nil)

	graph := new(MockMetaGraph)
	graph.On("CreateImageContainer", mock.Anything, "ig-42", "page-token", "https://cdn.example.com/a.jpg", "caption").
		Return("container-1", nil)
	notReady := model.RemoteRejected("Media ID is not available")
	graph.On("PublishContainer", mock.Anything, "ig-42", "page-token", "container-1").
		Return("", notReady).Times(4)
	graph.On("PublishContainer", mock.Anything, "ig-42", "page-token", "container-1").
		Return("media-9", nil).Once()

	sleeper := &fakeSleeper{}
	pu := usecase.NewPublishUsecase(graph, accountRepo, nil, nil, cipher, sleeper.Sleep)

	mediaID, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "caption")
	require.NoError(t, err)
	assert.Equal(t, "media-9", mediaID)
	// One sleep between each of the five attempts.
	require.Len(t, sleeper.delays, 4)
	for _, d := range sleeper.delays {
		assert.Equal(t, 2*time.Second, d)
	}
	graph.AssertExpectations(t)
}

func TestPublish_RetryCeiling(t *testing.T) {
	cipher := newTestCipher(t)
	account := connectedAccount(t, cipher)

	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(account, nil)

	graph := new(MockMetaGraph)
	graph.On("CreateImageContainer", mock.Anything, "ig-42", "page-token", "https://cdn.example.com/a.jpg", "").
		Return("container-1", nil)
	lastErr := model.RemoteRejected("Media ID is not available")
	graph.On("PublishContainer", mock.Anything, "ig-42", "page-token", "container-1").
		Return("", lastErr).Times(5)

	sleeper := &fakeSleeper{}
	pu := usecase.NewPublishUsecase(graph, accountRepo, nil, nil, cipher, sleeper.Sleep)

	_, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteRejected)
	assert.Contains(t, err.Error(), "Media ID is not available")
	assert.Len(t, sleeper.delays, 4)
	graph.AssertExpectations(t)
}

func TestPublish_ContainerCreationRejected(t *testing.T) {
	cipher := newTestCipher(t)
	account := connectedAccount(t, cipher)

	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(account, nil)

	graph := new(MockMetaGraph)
	graph.On("CreateImageContainer", mock.Anything, "ig-42", "page-token", "https://cdn.example.com/a.jpg", "").
		Return("", model.RemoteRejected("Invalid image URL"))

	pu := usecase.NewPublishUsecase(graph, accountRepo, nil, nil, cipher)
	_, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "")
	assert.ErrorIs(t, err, model.ErrRemoteRejected)
	graph.AssertNotCalled(t, "PublishContainer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_Unauthenticated(t *testing.T) {
	cipher := newTestCipher(t)
	pu := usecase.NewPublishUsecase(new(MockMetaGraph), new(MockSocialAccountRepo), nil, nil, cipher)
	_, err := pu.Publish(context.Background(), 0, "https://cdn.example.com/a.jpg", "")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestHistory_NoStoreReturnsEmpty(t *testing.T) {
	cipher := newTestCipher(t)
	pu := usecase.NewPublishUsecase(new(MockMetaGraph), new(MockSocialAccountRepo), nil, nil, cipher)
	records, err := pu.History(context.Background(), 7, 20)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPublish_NotifiesAfterSuccess(t *testing.T) {
	cipher := newTestCipher(t)
	account := connectedAccount(t, cipher)

	accountRepo := new(MockSocialAccountRepo)
	accountRepo.On("Get", mock.Anything, int64(7), model.PlatformInstagram).
		Return(account, nil)

	graph := new(MockMetaGraph)
	graph.On("CreateImageContainer", mock.Anything, "ig-42", "page-token", "https://cdn.example.com/a.jpg", "hi").
		Return("container-1", nil)
	graph.On("PublishContainer", mock.Anything, "ig-42", "page-token", "container-1").
		Return("media-9", nil)

	var events []repository.PostPublishedEvent
	notifier := notifierFunc(func(_ context.Context, e repository.PostPublishedEvent) error {
		events = append(events, e)
		return errors.New("broker down") // must not fail the publish
	})

	pu := usecase.NewPublishUsecase(graph, accountRepo, nil, []repository.IPostEventNotifier{notifier}, cipher)
	mediaID, err := pu.Publish(context.Background(), 7, "https://cdn.example.com/a.jpg", "hi")
	require.NoError(t, err)
	assert.Equal(t, "media-9", mediaID)
	require.Len(t, events, 1)
	assert.Equal(t, "media-9", events[0].MediaID)
	assert.Equal(t, model.PlatformInstagram, events[0].Platform)
}

type notifierFunc func(ctx context.Context, event repository.PostPublishedEvent) error

func (f notifierFunc) PostPublished(ctx context.Context, event repository.PostPublishedEvent) error {
	return f(ctx, event)
}
