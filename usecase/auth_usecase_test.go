package usecase_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/cache"
	"creator-studio/usecase"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeIdentityProvider returns a canned identity.
type fakeIdentityProvider struct {
	identity *repository.ExternalIdentity
	err      error
}

func (f *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/consent?state=" + url.QueryEscape(state)
}

func (f *fakeIdentityProvider) FetchIdentity(context.Context, string) (*repository.ExternalIdentity, error) {
	return f.identity, f.err
}

func googleIdentity() *repository.ExternalIdentity {
	return &repository.ExternalIdentity{
		Provider: model.ProviderGoogle,
		ID:       "g-1",
		Email:    "alice@example.com",
		Name:     "Alice",
		Avatar:   "https://img.example.com/alice.png",
	}
}

func newAuth(idp repository.IIdentityProvider, userRepo repository.IUser, states cache.IStateStore) usecase.IAuth {
	return usecase.NewAuthUsecase(map[string]repository.IIdentityProvider{model.ProviderGoogle: idp}, userRepo, states)
}

func TestLoginURL_CarriesStoredState(t *testing.T) {
	states := cache.NewMemoryStateStore()
	auth := newAuth(&fakeIdentityProvider{}, new(MockUserRepo), states)

	loginURL, err := auth.LoginURL(context.Background(), model.ProviderGoogle)
	require.NoError(t, err)

	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	_, ok := states.Take(context.Background(), state)
	assert.True(t, ok)
}

func TestLoginURL_UnknownProvider(t *testing.T) {
	auth := newAuth(&fakeIdentityProvider{}, new(MockUserRepo), cache.NewMemoryStateStore())
	_, err := auth.LoginURL(context.Background(), "myspace")
	assert.ErrorIs(t, err, model.ErrNotConfigured)
}

func TestHandleLoginCallback_CreatesFirstTimeUser(t *testing.T) {
	states := cache.NewMemoryStateStore()
	state := putState(t, states, 0)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(nil, model.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "alice@example.com" && u.Role == model.RoleUser && u.Provider == model.ProviderGoogle
	})).Return(&model.User{ID: 1, Email: "alice@example.com", Name: "Alice", Role: model.RoleUser}, nil)

	auth := newAuth(&fakeIdentityProvider{identity: googleIdentity()}, userRepo, states)
	user, err := auth.HandleLoginCallback(context.Background(), model.ProviderGoogle, state, "the-code", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	userRepo.AssertExpectations(t)
}

func TestHandleLoginCallback_ExistingUserKeepsRole(t *testing.T) {
	states := cache.NewMemoryStateStore()
	state := putState(t, states, 0)

	existing := &model.User{ID: 9, Email: "alice@example.com", Name: "Alice", Role: model.RoleSuperAdmin, Provider: model.ProviderGoogle, ProviderID: "g-1", Avatar: "https://img.example.com/alice.png"}
	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	auth := newAuth(&fakeIdentityProvider{identity: googleIdentity()}, userRepo, states)
	user, err := auth.HandleLoginCallback(context.Background(), model.ProviderGoogle, state, "the-code", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, user.Role)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleLoginCallback_Denied(t *testing.T) {
	auth := newAuth(&fakeIdentityProvider{}, new(MockUserRepo), cache.NewMemoryStateStore())
	_, err := auth.HandleLoginCallback(context.Background(), model.ProviderGoogle, "whatever", "", "access_denied")
	assert.ErrorIs(t, err, model.ErrUserDenied)
}

func TestHandleLoginCallback_BadState(t *testing.T) {
	auth := newAuth(&fakeIdentityProvider{identity: googleIdentity()}, new(MockUserRepo), cache.NewMemoryStateStore())
	_, err := auth.HandleLoginCallback(context.Background(), model.ProviderGoogle, "never-issued", "the-code", "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
