package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/leagueconsole/go/clients/league_api_client"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// ValidationError is a form problem shown to the operator verbatim
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrLoginFieldsRequired ValidationError = "Please enter username and password"
	ErrScheduleIDRequired  ValidationError = "Schedule ID is required"
	ErrLogoFieldsRequired  ValidationError = "Team ID and logo file are required"
)

const isoMillisecondUTCLayout = "2006-01-02T15:04:05.000Z"

var matchDateInputLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// LoginForm holds the overlay's username and password fields
type LoginForm struct {
	Username string
	Password string
}

func (f LoginForm) Credentials() models.AdminCredentials {
	return models.AdminCredentials{Username: f.Username, Password: f.Password}
}

func (f LoginForm) Validate() error {
	if !f.Credentials().Complete() {
		return ErrLoginFieldsRequired
	}
	return nil
}

// CreateLeagueForm holds leagueName and leagueLogoUrl
type CreateLeagueForm struct {
	Name    string
	LogoURL string
}

// Request builds the payload; an empty logo URL is left out.
func (f CreateLeagueForm) Request() league_api_client.CreateLeagueRequest {
	return league_api_client.CreateLeagueRequest{
		Name:    f.Name,
		LogoURL: f.LogoURL,
	}
}

// CreateTeamForm holds teamLeagueId, teamName and teamElo
type CreateTeamForm struct {
	LeagueID string
	Name     string
	Elo      string
}

// Request builds the payload. The rating is sent only when the field holds a
// number; otherwise the backend default applies.
func (f CreateTeamForm) Request() league_api_client.CreateTeamRequest {
	req := league_api_client.CreateTeamRequest{
		LeagueID: f.LeagueID,
		Name:     f.Name,
	}
	if elo := strings.TrimSpace(f.Elo); elo != "" {
		if v, err := strconv.ParseFloat(elo, 64); err == nil {
			req.EloRating = &v
		}
	}
	return req
}

// CreateScheduleForm holds the schedule fields. MatchDate is a
// datetime-local value read in the console's time zone.
type CreateScheduleForm struct {
	LeagueID   string
	HomeTeamID string
	AwayTeamID string
	MatchDate  string
}

// Request builds the payload, converting MatchDate to UTC ISO-8601.
func (f CreateScheduleForm) Request(loc *time.Location) (league_api_client.CreateScheduleRequest, error) {
	req := league_api_client.CreateScheduleRequest{
		LeagueID:   f.LeagueID,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
	}
	if strings.TrimSpace(f.MatchDate) == "" {
		return req, nil
	}
	t, err := parseMatchDate(strings.TrimSpace(f.MatchDate), loc)
	if err != nil {
		return req, err
	}
	req.MatchDate = t.UTC().Format(isoMillisecondUTCLayout)
	return req, nil
}

func parseMatchDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range matchDateInputLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid match date %q", value)
}

// UpdateResultForm holds scheduleId, homeScore and awayScore
type UpdateResultForm struct {
	ScheduleID string
	HomeScore  string
	AwayScore  string
}

func (f UpdateResultForm) Validate() error {
	if f.ScheduleID == "" {
		return ErrScheduleIDRequired
	}
	return nil
}

// Request builds the payload. Scores that are not integers are sent as null.
func (f UpdateResultForm) Request() league_api_client.UpdateResultRequest {
	return league_api_client.UpdateResultRequest{
		HomeScore: parseScore(f.HomeScore),
		AwayScore: parseScore(f.AwayScore),
	}
}

func parseScore(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

// UploadLogoForm holds logoTeamId and the selected logoFile
type UploadLogoForm struct {
	TeamID   string
	Filename string
	File     io.Reader
}

func (f UploadLogoForm) Validate() error {
	if f.TeamID == "" || f.File == nil {
		return ErrLogoFieldsRequired
	}
	return nil
}
