package meta

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

	"github.com/google/go-querystring/query"
)

const (
	defaultGraphBaseURL = "https://graph.facebook.com/v21.0"
	defaultTimeout      = 15 * time.Second
)

// Client talks to the Meta Graph API for the connect and publish workflows.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewGraphClient creates a Graph API client for the given Meta app.
func NewGraphClient(appID, appSecret string) repository.IMetaGraph {
	return &Client{
		appID:      appID,
		appSecret:  appSecret,
		baseURL:    defaultGraphBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewGraphClientWithBaseURL is used by tests to point at a local server.
func NewGraphClientWithBaseURL(appID, appSecret, baseURL string, httpClient *http.Client) repository.IMetaGraph {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{appID: appID, appSecret: appSecret, baseURL: baseURL, httpClient: httpClient}
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type accountsResponse struct {
	Data []struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		AccessToken      string `json:"access_token"`
		InstagramAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	} `json:"data"`
}

type exchangeCodeParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ClientSecret string `url:"client_secret"`
	Code         string `url:"code"`
}

type longLivedParams struct {
	GrantType       string `url:"grant_type"`
	ClientID        string `url:"client_id"`
	ClientSecret    string `url:"client_secret"`
	FBExchangeToken string `url:"fb_exchange_token"`
}

type containerParams struct {
	ImageURL    string `url:"image_url"`
	Caption     string `url:"caption,omitempty"`
	AccessToken string `url:"access_token"`
}

type publishParams struct {
	CreationID  string `url:"creation_id"`
	AccessToken string `url:"access_token"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading graph response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gerr graphError
		if jsonErr := json.Unmarshal(body, &gerr); jsonErr == nil && gerr.Error.Message != "" {
			return model.RemoteRejected(gerr.Error.Message)
		}
		return model.RemoteRejected(fmt.Sprintf("graph returned status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding graph response: %w", err)
		}
	}
	return nil
}

// ExchangeCode converts an authorization code into a short-lived user token.
func (c *Client) ExchangeCode(ctx context.Context, redirectURI, code string) (string, error) {
	params, err := query.Values(exchangeCodeParams{
		ClientID:     c.appID,
		RedirectURI:  redirectURI,
		ClientSecret: c.appSecret,
		Code:         code,
	})
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := c.get(ctx, "/oauth/access_token", params, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", model.RemoteRejected("token exchange returned no access_token")
	}
	return tok.AccessToken, nil
}

// FindInstagramPage returns the first page with an Instagram Business account.
func (c *Client) FindInstagramPage(ctx context.Context, userToken string) (*repository.InstagramPage, error) {
	params := url.Values{}
	params.Set("access_token", userToken)
	params.Set("fields", "id,name,access_token,instagram_business_account")

	var accounts accountsResponse
	if err := c.get(ctx, "/me/accounts", params, &accounts); err != nil {
		return nil, err
	}
	for _, page := range accounts.Data {
		if page.InstagramAccount != nil && page.InstagramAccount.ID != "" {
			return &repository.InstagramPage{
				PageID:      page.ID,
				PageName:    page.Name,
				PageToken:   page.AccessToken,
				InstagramID: page.InstagramAccount.ID,
			}, nil
		}
	}
	return nil, model.ErrNoEligibleAccount
}

// ExchangeLongLived upgrades a short-lived token to a long-lived one.
func (c *Client) ExchangeLongLived(ctx context.Context, token string) (string, int64, error) {
	params, err := query.Values(longLivedParams{
		GrantType:       "fb_exchange_token",
		ClientID:        c.appID,
		ClientSecret:    c.appSecret,
		FBExchangeToken: token,
	})
	if err != nil {
		return "", 0, err
	}
	var tok tokenResponse
	if err := c.get(ctx, "/oauth/access_token", params, &tok); err != nil {
		return "", 0, err
	}
	if tok.AccessToken == "" {
		return "", 0, model.RemoteRejected("long-lived exchange returned no access_token")
	}
	return tok.AccessToken, tok.ExpiresIn, nil
}

// GetUsername fetches the display username of an Instagram account.
func (c *Client) GetUsername(ctx context.Context, igUserID, token string) (string, error) {
	params := url.Values{}
	params.Set("fields", "username")
	params.Set("access_token", token)

	var out struct {
		Username string `json:"username"`
	}
	if err := c.get(ctx, "/"+igUserID, params, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}

func (c *Client) GetProfile(ctx context.Context, igUserID, token string) (*repository.InstagramProfile, error) {
	params := url.Values{}
	params.Set("fields", "id,username,account_type,media_count")
	params.Set("access_token", token)

	var profile repository.InstagramProfile
	if err := c.get(ctx, "/"+igUserID, params, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateImageContainer stages a single-image post and returns the container id.
func (c *Client) CreateImageContainer(ctx context.Context, igUserID, token, imageURL, caption string) (string, error) {
	params, err := query.Values(containerParams{
		ImageURL:    imageURL,
		Caption:     caption,
		AccessToken: token,
	})
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/"+igUserID+"/media", params, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", model.RemoteRejected("container creation returned no id")
	}
	return out.ID, nil
}

// PublishContainer finalizes a staged container and returns the media id.
func (c *Client) PublishContainer(ctx context.Context, igUserID, token, containerID string) (string, error) {
	params, err := query.Values(publishParams{
		CreationID:  containerID,
		AccessToken: token,
	})
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/"+igUserID+"/media_publish", params, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", model.RemoteRejected("publish returned no media id")
	}
	return out.ID, nil
}
