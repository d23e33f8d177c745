package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/cache"
	"creator-studio/infrastructure/logger"
	"creator-studio/infrastructure/security"
)

const (
	connectStateTTL = 10 * time.Minute

	// Scopes required to find the Instagram Business account and publish to it.
	instagramScopes = "instagram_basic,instagram_content_publish,pages_show_list,pages_read_engagement"

	// Applied when the provider omits expires_in on the long-lived exchange.
	defaultTokenLifetime = 60 * 24 * time.Hour

	fallbackUsername = "instagram"
)

type IConnection interface {
	// InitiateConnect returns the Meta consent dialog URL for the user.
	InitiateConnect(ctx context.Context, userID int64, platform string) (string, error)
	// HandleCallback completes the connect flow and returns the connected
	// username. Callers translate errors into redirects.
	HandleCallback(ctx context.Context, state, code, errParam string) (string, error)
	Disconnect(ctx context.Context, userID int64, platform string) error
	// ConnectionStatus reports {platform: connected} for all supported
	// platforms. Token values never appear in the result.
	ConnectionStatus(ctx context.Context, userID int64) (map[string]bool, error)
	// Profile proxies the Graph profile of the connected Instagram account.
	Profile(ctx context.Context, userID int64) (*repository.InstagramProfile, error)
}

type connectionUsecase struct {
	graph       repository.IMetaGraph
	accountRepo repository.ISocialAccount
	states      cache.IStateStore
	cipher      *security.TokenCipher
	appID       string
	redirectURI string
	now         func() time.Time
}

func NewConnectionUsecase(
	graph repository.IMetaGraph,
	accountRepo repository.ISocialAccount,
	states cache.IStateStore,
	cipher *security.TokenCipher,
	appID string,
	redirectURI string,
) IConnection {
	return &connectionUsecase{
		graph:       graph,
		accountRepo: accountRepo,
		states:      states,
		cipher:      cipher,
		appID:       appID,
		redirectURI: redirectURI,
		now:         time.Now,
	}
}

func (u *connectionUsecase) InitiateConnect(ctx context.Context, userID int64, platform string) (string, error) {
	if userID == 0 {
		return "", model.ErrUnauthenticated
	}
	if platform != model.PlatformInstagram {
		return "", fmt.Errorf("%w: connect flow only implemented for instagram", model.ErrInvalidInput)
	}
	if u.appID == "" {
		return "", fmt.Errorf("%w: instagram connect", model.ErrNotConfigured)
	}
	if !u.cipher.HasKey() {
		// Persisting the resulting token would fail anyway; refuse up front.
		return "", fmt.Errorf("%w: token encryption key", model.ErrNotConfigured)
	}

	state, err := newState()
	if err != nil {
		return "", err
	}
	if err := u.states.Put(ctx, state, userID, connectStateTTL); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("client_id", u.appID)
	params.Set("redirect_uri", u.redirectURI)
	params.Set("scope", instagramScopes)
	params.Set("response_type", "code")
	params.Set("state", state)
	return "https://www.facebook.com/v21.0/dialog/oauth?" + params.Encode(), nil
}

func (u *connectionUsecase) HandleCallback(ctx context.Context, state, code, errParam string) (string, error) {
	if errParam != "" {
		return "", model.ErrUserDenied
	}
	userID, ok := u.states.Take(ctx, state)
	if !ok || userID == 0 {
		return "", fmt.Errorf("%w: unknown or expired state", model.ErrInvalidInput)
	}
	if code == "" {
		return "", fmt.Errorf("%w: missing code", model.ErrInvalidInput)
	}

	shortToken, err := u.graph.ExchangeCode(ctx, u.redirectURI, code)
	if err != nil {
		return "", err
	}

	page, err := u.graph.FindInstagramPage(ctx, shortToken)
	if err != nil {
		return "", err
	}

	// Prefer a long-lived token; keep the page token when the upgrade fails
	// rather than failing the whole connect.
	token := page.PageToken
	var expiresIn int64
	if longToken, exp, llErr := u.graph.ExchangeLongLived(ctx, page.PageToken); llErr == nil {
		token = longToken
		expiresIn = exp
	} else {
		logger.GetLogger().
			WithField("user_id", userID).
			WithField("error", llErr).
			Warn("Long-lived token exchange failed; storing short-lived token")
	}
	expiry := u.now().Add(defaultTokenLifetime)
	if expiresIn > 0 {
		expiry = u.now().Add(time.Duration(expiresIn) * time.Second)
	}

	username, err := u.graph.GetUsername(ctx, page.InstagramID, token)
	if err != nil || username == "" {
		username = fallbackUsername
	}

	encrypted, err := u.cipher.Encrypt(token)
	if err != nil {
		return "", fmt.Errorf("%w: token encryption key", model.ErrNotConfigured)
	}

	account := &model.SocialAccount{
		UserID:         userID,
		Platform:       model.PlatformInstagram,
		Username:       username,
		Connected:      true,
		AccessToken:    &encrypted,
		TokenExpiresAt: &expiry,
		ExternalID:     &page.InstagramID,
	}
	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		return "", err
	}

	logger.GetLogger().
		WithField("user_id", userID).
		WithField("username", username).
		Info("Instagram account connected")
	return username, nil
}

func (u *connectionUsecase) Disconnect(ctx context.Context, userID int64, platform string) error {
	if userID == 0 {
		return model.ErrUnauthenticated
	}
	if !model.IsSupportedPlatform(platform) {
		return fmt.Errorf("%w: unsupported platform %q", model.ErrInvalidInput, platform)
	}
	return u.accountRepo.Disconnect(ctx, userID, platform)
}

func (u *connectionUsecase) ConnectionStatus(ctx context.Context, userID int64) (map[string]bool, error) {
	status := make(map[string]bool, len(model.SupportedPlatforms))
	for _, p := range model.SupportedPlatforms {
		status[p] = false
	}
	if userID == 0 {
		return status, nil
	}

	accounts, err := u.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	for _, acc := range accounts {
		if _, ok := status[acc.Platform]; ok {
			status[acc.Platform] = acc.Usable(now)
		}
	}
	return status, nil
}

func (u *connectionUsecase) Profile(ctx context.Context, userID int64) (*repository.InstagramProfile, error) {
	if userID == 0 {
		return nil, model.ErrUnauthenticated
	}
	account, err := u.usableAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	token := u.cipher.Decrypt(*account.AccessToken)
	if token == "" {
		return nil, model.ErrNotConnected
	}
	return u.graph.GetProfile(ctx, *account.ExternalID, token)
}

// usableAccount loads the Instagram account and checks it can still act.
func (u *connectionUsecase) usableAccount(ctx context.Context, userID int64) (*model.SocialAccount, error) {
	account, err := u.accountRepo.Get(ctx, userID, model.PlatformInstagram)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotConnected
		}
		return nil, err
	}
	if !account.Usable(u.now()) || account.ExternalID == nil || *account.ExternalID == "" {
		return nil, model.ErrNotConnected
	}
	return account, nil
}
