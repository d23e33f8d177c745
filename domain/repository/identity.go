package repository

import "context"

// ExternalIdentity is the normalized profile returned by a login provider.
type ExternalIdentity struct {
	Provider string
	ID       string
	Email    string
	Name     string
	Avatar   string
}

// IIdentityProvider abstracts an OAuth login provider (Google, Facebook).
type IIdentityProvider interface {
	// AuthCodeURL builds the provider consent URL carrying the given state.
	AuthCodeURL(state string) string
	// FetchIdentity exchanges the authorization code and loads the profile.
	FetchIdentity(ctx context.Context, code string) (*ExternalIdentity, error)
}
