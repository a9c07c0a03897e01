package league_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mcdev12/leagueconsole/go/clients"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// ScheduleFilter narrows GET /schedules. Zero value lists every schedule.
type ScheduleFilter struct {
	LeagueID string
	Status   models.ScheduleStatus
}

func (f ScheduleFilter) query() string {
	v := url.Values{}
	if f.LeagueID != "" {
		v.Set(LeagueIDParam, f.LeagueID)
	}
	if f.Status != "" {
		v.Set(StatusParam, string(f.Status))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// CreateScheduleRequest is the body of POST /admin/schedules. MatchDate is
// an RFC 3339 timestamp; when empty the backend picks a default.
type CreateScheduleRequest struct {
	LeagueID   string `json:"league_id"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	MatchDate  string `json:"match_date,omitempty"`
}

// UpdateResultRequest is the body of PUT /admin/schedules/{id}/result.
// Scores that could not be read are sent as null.
type UpdateResultRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

func (c *LeagueAPIClient) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]models.Schedule, error) {
	body, err := c.Get(ctx, SchedulesEndpoint+filter.query())
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}

	var schedules []models.Schedule
	if err := json.Unmarshal(body, &schedules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return schedules, nil
}

func (c *LeagueAPIClient) CreateSchedule(ctx context.Context, creds *models.AdminCredentials, req CreateScheduleRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.SendJSON(ctx, http.MethodPost, AdminSchedulesEndpoint, req, &resp, clients.WithBasicAuth(creds)); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &resp, nil
}

func (c *LeagueAPIClient) UpdateScheduleResult(ctx context.Context, creds *models.AdminCredentials, scheduleID string, req UpdateResultRequest) (*MessageResponse, error) {
	endpoint := fmt.Sprintf(AdminScheduleResultEndpoint, url.PathEscape(scheduleID))

	var resp MessageResponse
	if err := c.SendJSON(ctx, http.MethodPut, endpoint, req, &resp, clients.WithBasicAuth(creds)); err != nil {
		return nil, fmt.Errorf("failed to update result: %w", err)
	}
	return &resp, nil
}
