package league_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/mcdev12/leagueconsole/go/clients"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// TeamFilter narrows GET /teams. Zero value lists every team.
type TeamFilter struct {
	LeagueID string
}

func (f TeamFilter) query() string {
	if f.LeagueID == "" {
		return ""
	}
	v := url.Values{}
	v.Set(LeagueIDParam, f.LeagueID)
	return "?" + v.Encode()
}

// CreateTeamRequest is the body of POST /admin/teams. EloRating is omitted
// when nil so the backend applies its default.
type CreateTeamRequest struct {
	LeagueID  string   `json:"league_id"`
	Name      string   `json:"name"`
	EloRating *float64 `json:"elo_rating,omitempty"`
}

// UploadLogoResponse is returned by POST /admin/teams/{id}/logo
type UploadLogoResponse struct {
	Message string `json:"message"`
	LogoURL string `json:"logo_url,omitempty"`
}

func (c *LeagueAPIClient) ListTeams(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	body, err := c.Get(ctx, TeamsEndpoint+filter.query())
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	var teams []models.Team
	if err := json.Unmarshal(body, &teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return teams, nil
}

func (c *LeagueAPIClient) CreateTeam(ctx context.Context, creds *models.AdminCredentials, req CreateTeamRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.SendJSON(ctx, http.MethodPost, AdminTeamsEndpoint, req, &resp, clients.WithBasicAuth(creds)); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &resp, nil
}

// UploadTeamLogo sends the logo as multipart form data under the "logo" field.
func (c *LeagueAPIClient) UploadTeamLogo(ctx context.Context, creds *models.AdminCredentials, teamID, filename string, logo io.Reader) (*UploadLogoResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(LogoFormField, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, logo); err != nil {
		return nil, fmt.Errorf("failed to copy logo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf(AdminTeamLogoEndpoint, url.PathEscape(teamID))
	body, err := c.Post(ctx, endpoint, &buf,
		clients.WithContentType(mw.FormDataContentType()),
		clients.WithBasicAuth(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}

	var resp UploadLogoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return &resp, nil
}
