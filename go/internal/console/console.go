package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/clients/league_api_client"
	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/mcdev12/leagueconsole/go/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LeagueAPI defines what the console needs from the league backend
type LeagueAPI interface {
	ListLeagues(ctx context.Context) ([]models.League, error)
	ListTeams(ctx context.Context, filter league_api_client.TeamFilter) ([]models.Team, error)
	ListSchedules(ctx context.Context, filter league_api_client.ScheduleFilter) ([]models.Schedule, error)
	CreateLeague(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateLeagueRequest) (*league_api_client.MessageResponse, error)
	CreateTeam(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateTeamRequest) (*league_api_client.MessageResponse, error)
	CreateSchedule(ctx context.Context, creds *models.AdminCredentials, req league_api_client.CreateScheduleRequest) (*league_api_client.MessageResponse, error)
	UpdateScheduleResult(ctx context.Context, creds *models.AdminCredentials, scheduleID string, req league_api_client.UpdateResultRequest) (*league_api_client.MessageResponse, error)
	UploadTeamLogo(ctx context.Context, creds *models.AdminCredentials, teamID, filename string, logo io.Reader) (*league_api_client.UploadLogoResponse, error)
}

// TableListener is told about every table that replaced the previous one.
type TableListener interface {
	TableUpdated(table Table)
}

// ChangeNotifier is told when a mutation changed a resource on the backend.
type ChangeNotifier interface {
	ResourceChanged(ctx context.Context, resource Resource) error
}

// Options configures a Console. Zero values pick defaults.
type Options struct {
	Clock    clockwork.Clock
	Display  DisplayOptions
	Listener TableListener
	Notifier ChangeNotifier
}

// Console is the admin console: it keeps the three rendered tables, runs
// the list and mutation operations against the backend and owns login.
type Console struct {
	api      LeagueAPI
	sessions *session.Manager
	clock    clockwork.Clock
	display  DisplayOptions
	listener TableListener
	notifier ChangeNotifier

	tables map[Resource]*tableState
}

// Snapshot holds one copy of every table
type Snapshot struct {
	Leagues   Table
	Teams     Table
	Schedules Table
}

// tableState tracks the rendered table of one resource and which refresh
// produced it. Responses are applied only when newer than the current one.
type tableState struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	table   Table
}

func (s *tableState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

func (s *tableState) apply(ticket uint64, table Table) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied {
		return false
	}
	s.applied = ticket
	s.table = table
	return true
}

func (s *tableState) get() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// New creates a Console backed by api, using sessions for login.
func New(api LeagueAPI, sessions *session.Manager, opts Options) *Console {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	c := &Console{
		api:      api,
		sessions: sessions,
		clock:    opts.Clock,
		display:  opts.Display.withDefaults(),
		listener: opts.Listener,
		notifier: opts.Notifier,
		tables:   make(map[Resource]*tableState, len(Resources)),
	}
	for _, r := range Resources {
		c.tables[r] = &tableState{table: EmptyTable(r)}
	}
	return c
}

// SetListener replaces the table listener. Call before serving requests.
func (c *Console) SetListener(l TableListener) {
	c.listener = l
}

// SetNotifier replaces the change notifier. Call before serving requests.
func (c *Console) SetNotifier(n ChangeNotifier) {
	c.notifier = n
}

// Display returns the date display settings
func (c *Console) Display() DisplayOptions {
	return c.display
}

// Now returns the console clock's current time
func (c *Console) Now() time.Time {
	return c.clock.Now()
}

// Load refreshes the three tables concurrently. A failing list never fails
// the load; it is only logged.
func (c *Console) Load(ctx context.Context) Snapshot {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range Resources {
		r := r
		g.Go(func() error {
			c.Refresh(gctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return c.Snapshot()
}

// Refresh fetches one resource and replaces its table, unless a newer
// refresh already landed. Errors are logged and returned; the previous rows
// stay in place.
func (c *Console) Refresh(ctx context.Context, resource Resource) error {
	state, ok := c.tables[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}
	ticket := state.begin()

	table, err := c.fetch(ctx, resource)
	if err != nil {
		log.Warn().
			Err(err).
			Str("resource", string(resource)).
			Msg("failed to load table")
		return err
	}

	if !state.apply(ticket, table) {
		log.Debug().
			Str("resource", string(resource)).
			Uint64("ticket", ticket).
			Msg("discarded stale table response")
		return nil
	}

	log.Debug().
		Str("resource", string(resource)).
		Int("rows", len(table.Rows)).
		Msg("table refreshed")

	if c.listener != nil {
		c.listener.TableUpdated(table)
	}
	return nil
}

func (c *Console) fetch(ctx context.Context, resource Resource) (Table, error) {
	switch resource {
	case ResourceLeagues:
		leagues, err := c.api.ListLeagues(ctx)
		if err != nil {
			return Table{}, err
		}
		return LeagueTable(leagues), nil
	case ResourceTeams:
		teams, err := c.api.ListTeams(ctx, league_api_client.TeamFilter{})
		if err != nil {
			return Table{}, err
		}
		return TeamTable(teams), nil
	case ResourceSchedules:
		schedules, err := c.api.ListSchedules(ctx, league_api_client.ScheduleFilter{})
		if err != nil {
			return Table{}, err
		}
		return ScheduleTable(schedules, c.display), nil
	default:
		return Table{}, fmt.Errorf("unknown resource %q", resource)
	}
}

// Table returns the current table for resource
func (c *Console) Table(resource Resource) (Table, bool) {
	state, ok := c.tables[resource]
	if !ok {
		return Table{}, false
	}
	return state.get(), true
}

// Snapshot returns the current tables without fetching
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		Leagues:   c.tables[ResourceLeagues].get(),
		Teams:     c.tables[ResourceTeams].get(),
		Schedules: c.tables[ResourceSchedules].get(),
	}
}
