package facebookauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const defaultProfileBaseURL = "https://graph.facebook.com/v21.0"

// Client implements Facebook login via the authorization-code flow.
type Client struct {
	oauthConfig    *oauth2.Config
	profileBaseURL string
	httpClient     *http.Client
}

func NewFacebookClient(appID, appSecret, redirectURL string) repository.IIdentityProvider {
	return &Client{
		oauthConfig: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		profileBaseURL: defaultProfileBaseURL,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state)
}

func (c *Client) FetchIdentity(ctx context.Context, code string) (*repository.ExternalIdentity, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook code exchange failed: %w", err)
	}
	return c.fetchProfile(ctx, token.AccessToken)
}

type facebookProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (*repository.ExternalIdentity, error) {
	params := url.Values{}
	params.Set("fields", "id,name,email,picture")
	params.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileBaseURL+"/me?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch facebook profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.RemoteRejected(fmt.Sprintf("facebook profile returned status %d", resp.StatusCode))
	}

	var profile facebookProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decoding facebook profile: %w", err)
	}
	if profile.ID == "" {
		return nil, model.RemoteRejected("facebook profile has no id")
	}
	// Facebook can withhold email; synthesize a stable placeholder so the
	// account still maps to one user row.
	email := profile.Email
	if email == "" {
		email = fmt.Sprintf("fb-%s@users.noreply.local", profile.ID)
	}

	return &repository.ExternalIdentity{
		Provider: model.ProviderFacebook,
		ID:       profile.ID,
		Email:    email,
		Name:     profile.Name,
		Avatar:   profile.Picture.Data.URL,
	}, nil
}
