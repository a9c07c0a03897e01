package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/leagueconsole/go/clients"
	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/mcdev12/leagueconsole/go/internal/session"
	"github.com/rs/zerolog/log"
)

// Outcome is what a form submission produced: the flash to show and
// whether the affected table was refetched.
type Outcome struct {
	Flash     Flash
	Refetched bool
}

type mutation struct {
	name        string
	action      string
	successArea Area
	errorArea   Area
	resource    Resource
}

var (
	createLeagueMutation = mutation{
		name: "create_league", action: "creating league",
		successArea: AreaLeagueSuccess, errorArea: AreaLeagueError, resource: ResourceLeagues,
	}
	createTeamMutation = mutation{
		name: "create_team", action: "creating team",
		successArea: AreaTeamSuccess, errorArea: AreaTeamError, resource: ResourceTeams,
	}
	createScheduleMutation = mutation{
		name: "create_schedule", action: "creating schedule",
		successArea: AreaScheduleSuccess, errorArea: AreaScheduleError, resource: ResourceSchedules,
	}
	updateResultMutation = mutation{
		name: "update_result", action: "updating result",
		successArea: AreaResultSuccess, errorArea: AreaResultError, resource: ResourceSchedules,
	}
	uploadLogoMutation = mutation{
		name: "upload_logo", action: "uploading logo",
		successArea: AreaLogoSuccess, errorArea: AreaLogoError, resource: ResourceTeams,
	}
)

// credentialsOf returns the session's credentials, or nil without a session.
func credentialsOf(s *session.Session) *models.AdminCredentials {
	if s == nil {
		return nil
	}
	creds := s.Credentials
	return &creds
}

// describeError reduces a request failure to what the operator sees: the
// HTTP status for backend rejections, the error text otherwise.
func describeError(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	return err.Error()
}

func (c *Console) flash(area Area, kind FlashKind, text string) Flash {
	return newFlash(area, kind, text, c.clock.Now())
}

// Login validates the form and opens a session. Validation failures are
// returned as a loginError flash with a nil session.
func (c *Console) Login(ctx context.Context, form LoginForm, remoteAddr string) (*session.Session, *Flash, error) {
	if err := form.Validate(); err != nil {
		f := c.flash(AreaLoginError, FlashError, err.Error())
		return nil, &f, nil
	}

	s, err := c.sessions.Login(ctx, form.Credentials(), remoteAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log in: %w", err)
	}
	return s, nil, nil
}

// Logout ends the session with id
func (c *Console) Logout(ctx context.Context, id string) error {
	return c.sessions.Logout(ctx, id)
}

// Session returns the live session for id, or nil when there is none.
func (c *Console) Session(ctx context.Context, id string) *session.Session {
	if id == "" {
		return nil
	}
	s, err := c.sessions.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
			log.Error().Err(err).Msg("failed to look up session")
		}
		return nil
	}
	return s
}

// run performs a mutation call. On success the resource is refetched once
// and other consoles are notified; on failure nothing is refetched.
func (c *Console) run(ctx context.Context, m mutation, call func(ctx context.Context) (string, error)) Outcome {
	message, err := call(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("operation", m.name).
			Msg("admin request failed")
		return Outcome{Flash: c.flash(m.errorArea, FlashError, fmt.Sprintf("Error %s: %s", m.action, describeError(err)))}
	}

	log.Info().
		Str("operation", m.name).
		Str("message", message).
		Msg("admin request succeeded")

	out := Outcome{Flash: c.flash(m.successArea, FlashSuccess, message), Refetched: true}
	_ = c.Refresh(ctx, m.resource)

	if c.notifier != nil {
		if err := c.notifier.ResourceChanged(ctx, m.resource); err != nil {
			log.Warn().Err(err).Str("resource", string(m.resource)).Msg("failed to publish change")
		}
	}
	return out
}

// rejected reports a form that failed client-side checks; nothing is sent.
func (c *Console) rejected(m mutation, text string) Outcome {
	return Outcome{Flash: c.flash(m.errorArea, FlashError, text)}
}

func (c *Console) CreateLeague(ctx context.Context, s *session.Session, form CreateLeagueForm) Outcome {
	return c.run(ctx, createLeagueMutation, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateLeague(ctx, credentialsOf(s), form.Request())
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

func (c *Console) CreateTeam(ctx context.Context, s *session.Session, form CreateTeamForm) Outcome {
	return c.run(ctx, createTeamMutation, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateTeam(ctx, credentialsOf(s), form.Request())
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

func (c *Console) CreateSchedule(ctx context.Context, s *session.Session, form CreateScheduleForm) Outcome {
	req, err := form.Request(c.display.Location)
	if err != nil {
		return c.rejected(createScheduleMutation, fmt.Sprintf("Error %s: %s", createScheduleMutation.action, err))
	}
	return c.run(ctx, createScheduleMutation, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateSchedule(ctx, credentialsOf(s), req)
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

// UpdateResult requires a schedule id before anything is sent.
func (c *Console) UpdateResult(ctx context.Context, s *session.Session, form UpdateResultForm) Outcome {
	if err := form.Validate(); err != nil {
		return c.rejected(updateResultMutation, err.Error())
	}
	return c.run(ctx, updateResultMutation, func(ctx context.Context) (string, error) {
		resp, err := c.api.UpdateScheduleResult(ctx, credentialsOf(s), form.ScheduleID, form.Request())
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

// UploadLogo requires a team id and a file before anything is sent.
func (c *Console) UploadLogo(ctx context.Context, s *session.Session, form UploadLogoForm) Outcome {
	if err := form.Validate(); err != nil {
		return c.rejected(uploadLogoMutation, err.Error())
	}
	return c.run(ctx, uploadLogoMutation, func(ctx context.Context) (string, error) {
		resp, err := c.api.UploadTeamLogo(ctx, credentialsOf(s), form.TeamID, form.Filename, form.File)
		if err != nil {
			return "", err
		}
		if resp.LogoURL != "" {
			log.Debug().Str("team_id", form.TeamID).Str("logo_url", resp.LogoURL).Msg("team logo stored")
		}
		return resp.Message, nil
	})
}
