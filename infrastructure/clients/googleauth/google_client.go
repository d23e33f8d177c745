package googleauth

import (
	"context"
	"fmt"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Client implements Google login via the authorization-code flow.
type Client struct {
	oauthConfig *oauth2.Config
}

func NewGoogleClient(clientID, clientSecret, redirectURL string) repository.IIdentityProvider {
	return &Client{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (c *Client) FetchIdentity(ctx context.Context, code string) (*repository.ExternalIdentity, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	service, err := googleoauth.NewService(ctx, option.WithTokenSource(c.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, model.RemoteRejected("google userinfo has no email")
	}

	return &repository.ExternalIdentity{
		Provider: model.ProviderGoogle,
		ID:       info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Avatar:   info.Picture,
	}, nil
}
