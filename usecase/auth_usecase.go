package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/cache"
	"creator-studio/infrastructure/logger"
)

// loginStateTTL bounds how long a consent redirect may take.
const loginStateTTL = 10 * time.Minute

type IAuth interface {
	// LoginURL creates a state value and returns the provider consent URL.
	LoginURL(ctx context.Context, provider string) (string, error)
	// HandleLoginCallback validates state, exchanges the code and returns the
	// matching user, creating one on first login.
	HandleLoginCallback(ctx context.Context, provider, state, code, errParam string) (*model.User, error)
}

type authUsecase struct {
	providers map[string]repository.IIdentityProvider
	userRepo  repository.IUser
	states    cache.IStateStore
}

func NewAuthUsecase(providers map[string]repository.IIdentityProvider, userRepo repository.IUser, states cache.IStateStore) IAuth {
	return &authUsecase{providers: providers, userRepo: userRepo, states: states}
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (u *authUsecase) LoginURL(ctx context.Context, provider string) (string, error) {
	idp, ok := u.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s login", model.ErrNotConfigured, provider)
	}
	state, err := newState()
	if err != nil {
		return "", err
	}
	if err := u.states.Put(ctx, state, 0, loginStateTTL); err != nil {
		return "", err
	}
	return idp.AuthCodeURL(state), nil
}

func (u *authUsecase) HandleLoginCallback(ctx context.Context, provider, state, code, errParam string) (*model.User, error) {
	idp, ok := u.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s login", model.ErrNotConfigured, provider)
	}
	if errParam != "" {
		return nil, model.ErrUserDenied
	}
	if _, ok := u.states.Take(ctx, state); !ok {
		return nil, fmt.Errorf("%w: unknown or expired state", model.ErrInvalidInput)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", model.ErrInvalidInput)
	}

	identity, err := idp.FetchIdentity(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, identity.Email)
	if errors.Is(err, model.ErrNotFound) {
		user, err = u.userRepo.Create(ctx, &model.User{
			Email:      identity.Email,
			Name:       identity.Name,
			Avatar:     identity.Avatar,
			Role:       model.RoleUser,
			Provider:   identity.Provider,
			ProviderID: identity.ID,
		})
		if err != nil {
			return nil, err
		}
		logger.GetLogger().
			WithField("user_id", user.ID).
			WithField("provider", provider).
			Info("New user registered")
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	// Refresh the profile fields the provider owns.
	changed := false
	if identity.Name != "" && identity.Name != user.Name {
		user.Name = identity.Name
		changed = true
	}
	if identity.Avatar != "" && identity.Avatar != user.Avatar {
		user.Avatar = identity.Avatar
		changed = true
	}
	if user.Provider == "" {
		user.Provider = identity.Provider
		user.ProviderID = identity.ID
		changed = true
	}
	if changed {
		if err := u.userRepo.Update(ctx, user); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to refresh user profile on login")
		}
	}
	return user, nil
}
