package repository

import "context"

// InstagramPage is a Facebook Page exposing an Instagram Business account,
// discovered during the connect flow.
type InstagramPage struct {
	PageID      string
	PageName    string
	PageToken   string
	InstagramID string
}

// InstagramProfile is the subset of the Graph profile shown in the dashboard.
type InstagramProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	MediaCount  int64  `json:"media_count,omitempty"`
}

// IMetaGraph abstracts the Meta Graph API calls used by the connection and
// publish workflows. Implemented by infrastructure/clients/meta.
type IMetaGraph interface {
	// ExchangeCode converts an authorization code into a short-lived user token.
	ExchangeCode(ctx context.Context, redirectURI, code string) (string, error)
	// FindInstagramPage lists the user's pages and returns the first one with
	// an Instagram Business account attached.
	FindInstagramPage(ctx context.Context, userToken string) (*InstagramPage, error)
	// ExchangeLongLived upgrades a token; expiresIn is seconds, 0 when the
	// provider omitted it.
	ExchangeLongLived(ctx context.Context, token string) (newToken string, expiresIn int64, err error)
	// GetUsername fetches the display username of an Instagram account.
	GetUsername(ctx context.Context, igUserID, token string) (string, error)
	GetProfile(ctx context.Context, igUserID, token string) (*InstagramProfile, error)
	// CreateImageContainer stages a single-image post and returns the container id.
	CreateImageContainer(ctx context.Context, igUserID, token, imageURL, caption string) (string, error)
	// PublishContainer finalizes a staged container and returns the media id.
	PublishContainer(ctx context.Context, igUserID, token, containerID string) (string, error)
}
