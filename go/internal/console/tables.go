package console

import (
	"strconv"
	"time"

	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// Resource names one of the three backend collections shown as tables
type Resource string

const (
	ResourceLeagues   Resource = "leagues"
	ResourceTeams     Resource = "teams"
	ResourceSchedules Resource = "schedules"
)

// Resources lists the tables in load order
var Resources = []Resource{ResourceLeagues, ResourceTeams, ResourceSchedules}

// ParseResource returns the resource named s, or false when s is unknown.
func ParseResource(s string) (Resource, bool) {
	for _, r := range Resources {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// DefaultDateLayout mimics a browser's en-US locale date/time string
const DefaultDateLayout = "1/2/2006, 3:04:05 PM"

// DisplayOptions controls how dates are rendered
type DisplayOptions struct {
	Location   *time.Location
	DateLayout string
}

func (o DisplayOptions) withDefaults() DisplayOptions {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	return o
}

// Cell is one table cell. Image cells carry the image source in Text.
type Cell struct {
	Text  string `json:"text"`
	Image bool   `json:"image,omitempty"`
}

// Row is one rendered table row
type Row struct {
	Cells []Cell `json:"cells"`
}

// Table is the rendered form of one resource
type Table struct {
	Resource Resource `json:"resource"`
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
}

var (
	leagueColumns   = []string{"ID", "Name", "Logo URL"}
	teamColumns     = []string{"ID", "League ID", "Name", "Elo Rating", "Logo"}
	scheduleColumns = []string{"ID", "League ID", "Home Team", "Away Team", "Match Date", "Status", "Home Score", "Away Score"}
)

// EmptyTable returns the table for r with no rows
func EmptyTable(r Resource) Table {
	t := Table{Resource: r, Rows: []Row{}}
	switch r {
	case ResourceLeagues:
		t.Columns = leagueColumns
	case ResourceTeams:
		t.Columns = teamColumns
	case ResourceSchedules:
		t.Columns = scheduleColumns
	}
	return t
}

func text(s string) Cell {
	return Cell{Text: s}
}

// LeagueTable renders leagues as id | name | logo url
func LeagueTable(leagues []models.League) Table {
	t := EmptyTable(ResourceLeagues)
	for _, l := range leagues {
		t.Rows = append(t.Rows, Row{Cells: []Cell{
			text(l.ID),
			text(l.Name),
			text(l.LogoURL),
		}})
	}
	return t
}

// TeamTable renders teams as id | league | name | elo | logo image
func TeamTable(teams []models.Team) Table {
	t := EmptyTable(ResourceTeams)
	for _, team := range teams {
		t.Rows = append(t.Rows, Row{Cells: []Cell{
			text(team.ID),
			text(team.LeagueID),
			text(team.Name),
			text(FormatRating(team.EloRating)),
			{Text: team.LogoURL, Image: true},
		}})
	}
	return t
}

// ScheduleTable renders schedules; the match date is shown in the display
// location and missing scores are blank.
func ScheduleTable(schedules []models.Schedule, opts DisplayOptions) Table {
	opts = opts.withDefaults()
	t := EmptyTable(ResourceSchedules)
	for _, s := range schedules {
		t.Rows = append(t.Rows, Row{Cells: []Cell{
			text(s.ID),
			text(s.LeagueID),
			text(s.HomeTeamID),
			text(s.AwayTeamID),
			text(FormatMatchDate(s.MatchDate, opts)),
			text(string(s.Status)),
			text(formatScore(s.HomeScore)),
			text(formatScore(s.AwayScore)),
		}})
	}
	return t
}

// FormatRating prints a rating in its shortest decimal form (1500, 1516.25).
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMatchDate renders t in the display location and layout
func FormatMatchDate(t time.Time, opts DisplayOptions) string {
	opts = opts.withDefaults()
	return t.In(opts.Location).Format(opts.DateLayout)
}

func formatScore(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
