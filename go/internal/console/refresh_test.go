package console

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/clients/league_api_client"
	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/mcdev12/leagueconsole/go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAPI answers ListLeagues from a queue of scripted responses; the
// other calls are unused here.
type scriptedAPI struct {
	mu      sync.Mutex
	replies []leagueReply
}

type leagueReply struct {
	started chan struct{}
	release chan struct{}
	leagues []models.League
	err     error
}

func (a *scriptedAPI) next() leagueReply {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.replies[0]
	a.replies = a.replies[1:]
	return r
}

func (a *scriptedAPI) ListLeagues(ctx context.Context) ([]models.League, error) {
	r := a.next()
	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	return r.leagues, r.err
}

func (a *scriptedAPI) ListTeams(ctx context.Context, filter league_api_client.TeamFilter) ([]models.Team, error) {
	return nil, nil
}

func (a *scriptedAPI) ListSchedules(ctx context.Context, filter league_api_client.ScheduleFilter) ([]models.Schedule, error) {
	return nil, nil
}

func (a *scriptedAPI) CreateLeague(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateLeagueRequest) (*league_api_client.MessageResponse, error) {
	return &league_api_client.MessageResponse{Message: "League created"}, nil
}

func (a *scriptedAPI) CreateTeam(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateTeamRequest) (*league_api_client.MessageResponse, error) {
	return nil, errors.New("not scripted")
}

func (a *scriptedAPI) CreateSchedule(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateScheduleRequest) (*league_api_client.MessageResponse, error) {
	return nil, errors.New("not scripted")
}

func (a *scriptedAPI) UpdateScheduleResult(ctx context.Context, creds *models.AdminCredentials, scheduleID string, req league_api_client.UpdateResultRequest) (*league_api_client.MessageResponse, error) {
	return nil, errors.New("not scripted")
}

func (a *scriptedAPI) UploadTeamLogo(ctx context.Context, creds *models.AdminCredentials, teamID, filename string, logo io.Reader) (*league_api_client.UploadLogoResponse, error) {
	return nil, errors.New("not scripted")
}

func newScriptedConsole(api *scriptedAPI, listener TableListener) *Console {
	return New(api, session.NewManager(session.NewMemoryStore(), 0), Options{
		Clock:    clockwork.NewFakeClockAt(testStart),
		Listener: listener,
	})
}

func TestRefresh_discardsStaleResponse(t *testing.T) {
	slow := leagueReply{
		started: make(chan struct{}),
		release: make(chan struct{}),
		leagues: []models.League{{ID: "old", Name: "Stale"}},
	}
	fast := leagueReply{leagues: []models.League{{ID: "new", Name: "Fresh"}}}
	api := &scriptedAPI{replies: []leagueReply{slow, fast}}
	listener := &recordingListener{}
	c := newScriptedConsole(api, listener)

	done := make(chan error, 1)
	go func() {
		done <- c.Refresh(context.Background(), ResourceLeagues)
	}()
	<-slow.started

	require.NoError(t, c.Refresh(context.Background(), ResourceLeagues))
	close(slow.release)
	require.NoError(t, <-done)

	table, ok := c.Table(ResourceLeagues)
	require.True(t, ok)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Fresh", table.Rows[0].Cells[1].Text)
	require.Len(t, listener.tables, 1)
}

func TestRefresh_failureKeepsPreviousRows(t *testing.T) {
	api := &scriptedAPI{replies: []leagueReply{
		{leagues: []models.League{{ID: "l1", Name: "Premier"}}},
		{err: errors.New("connection refused")},
	}}
	c := newScriptedConsole(api, nil)

	require.NoError(t, c.Refresh(context.Background(), ResourceLeagues))
	assert.Error(t, c.Refresh(context.Background(), ResourceLeagues))

	table, _ := c.Table(ResourceLeagues)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Premier", table.Rows[0].Cells[1].Text)
}

func TestRefresh_unknownResource(t *testing.T) {
	c := newScriptedConsole(&scriptedAPI{}, nil)
	assert.Error(t, c.Refresh(context.Background(), Resource("players")))
	_, ok := c.Table(Resource("players"))
	assert.False(t, ok)
}

func TestSnapshot_startsEmpty(t *testing.T) {
	c := newScriptedConsole(&scriptedAPI{}, nil)
	snap := c.Snapshot()
	assert.Equal(t, EmptyTable(ResourceLeagues), snap.Leagues)
	assert.Equal(t, EmptyTable(ResourceTeams), snap.Teams)
	assert.Equal(t, EmptyTable(ResourceSchedules), snap.Schedules)
}
