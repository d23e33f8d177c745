package model

import "time"

// Platforms a user can connect. Instagram publishing is implemented;
// TikTok and Facebook page posting surface as connection status only.
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformFacebook  = "facebook"
)

// SupportedPlatforms is the fixed set reported by the connections endpoint.
var SupportedPlatforms = []string{PlatformInstagram, PlatformTikTok, PlatformFacebook}

func IsSupportedPlatform(p string) bool {
	for _, s := range SupportedPlatforms {
		if s == p {
			return true
		}
	}
	return false
}

// SocialAccount stores one user's connection to one platform.
// At most one row exists per (user_id, platform); connects upsert it and
// disconnects blank the credential fields instead of deleting the row.
type SocialAccount struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Platform       string     `json:"platform"`
	Username       string     `json:"username"`
	Connected      bool       `json:"connected"`
	AccessToken    *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	ExternalID     *string    `json:"external_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Usable reports whether the stored credential can still act on the user's
// behalf. Expiry is discovered lazily here; there is no background sweep.
func (a *SocialAccount) Usable(now time.Time) bool {
	if a == nil || !a.Connected {
		return false
	}
	if a.AccessToken == nil || *a.AccessToken == "" {
		return false
	}
	if a.TokenExpiresAt != nil && a.TokenExpiresAt.Before(now) {
		return false
	}
	return true
}
