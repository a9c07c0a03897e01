package models

// League is a league as served by the backend's /leagues endpoint.
type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}
