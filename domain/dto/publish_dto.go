package dto

// PublishRequest is the body of POST /api/publish/:platform.
// "url" is accepted as an alias for older clients.
type PublishRequest struct {
	ImageURL string `json:"imageUrl"`
	URL      string `json:"url,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Image returns the effective image URL of the request.
func (r *PublishRequest) Image() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.URL
}

type PublishResponse struct {
	Success bool   `json:"success"`
	MediaID string `json:"mediaId"`
	Message string `json:"message,omitempty"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
