package league_api_client

import (
	"strings"
	"time"

	"github.com/mcdev12/leagueconsole/go/clients"
)

// LeagueAPIClient talks to the league backend's public and admin endpoints.
type LeagueAPIClient struct {
	*clients.BaseClient
}

func NewLeagueAPIClient(baseURL string) *LeagueAPIClient {
	client := &LeagueAPIClient{
		BaseClient: clients.NewBaseClient(strings.TrimRight(baseURL, "/")),
	}

	client.SetHeader("Accept", "application/json")

	return client
}

// NewLeagueAPIClientWithTimeout is NewLeagueAPIClient with a custom
// per-request timeout.
func NewLeagueAPIClientWithTimeout(baseURL string, timeout time.Duration) *LeagueAPIClient {
	client := NewLeagueAPIClient(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// MessageResponse is the body the backend returns on successful mutations.
type MessageResponse struct {
	Message string `json:"message"`
}
