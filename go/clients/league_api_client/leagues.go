package league_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcdev12/leagueconsole/go/clients"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// CreateLeagueRequest is the body of POST /admin/leagues
type CreateLeagueRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

func (c *LeagueAPIClient) ListLeagues(ctx context.Context) ([]models.League, error) {
	body, err := c.Get(ctx, LeaguesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get leagues: %w", err)
	}

	var leagues []models.League
	if err := json.Unmarshal(body, &leagues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return leagues, nil
}

func (c *LeagueAPIClient) CreateLeague(ctx context.Context, creds *models.AdminCredentials, req CreateLeagueRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.SendJSON(ctx, http.MethodPost, AdminLeaguesEndpoint, req, &resp, clients.WithBasicAuth(creds)); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return &resp, nil
}
