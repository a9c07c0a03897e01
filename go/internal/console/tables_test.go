package console

import (
	"testing"
	"time"

	"github.com/mcdev12/leagueconsole/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "1500", FormatRating(1500))
	assert.Equal(t, "1516.25", FormatRating(1516.25))
	assert.Equal(t, "0", FormatRating(0))
}

func TestFormatMatchDate(t *testing.T) {
	match := time.Date(2025, 12, 31, 23, 15, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "12/31/2025, 11:15:00 PM", FormatMatchDate(match, DisplayOptions{Location: time.UTC}))
	assert.Equal(t, "1/1/2026, 8:15:00 AM", FormatMatchDate(match, DisplayOptions{Location: tokyo}))
	assert.Equal(t, "2025-12-31 23:15", FormatMatchDate(match, DisplayOptions{Location: time.UTC, DateLayout: "2006-01-02 15:04"}))
}

func TestScheduleTable_blankScores(t *testing.T) {
	table := ScheduleTable([]models.Schedule{{ID: "s1", Status: models.ScheduleStatusScheduled}}, DisplayOptions{Location: time.UTC})
	require.Len(t, table.Rows, 1)
	cells := table.Rows[0].Cells
	require.Len(t, cells, len(table.Columns))
	assert.Equal(t, "", cells[6].Text)
	assert.Equal(t, "", cells[7].Text)
}

func TestParseResource(t *testing.T) {
	r, ok := ParseResource("teams")
	assert.True(t, ok)
	assert.Equal(t, ResourceTeams, r)

	_, ok = ParseResource("players")
	assert.False(t, ok)
}

func TestEmptyTable_hasColumns(t *testing.T) {
	for _, r := range Resources {
		table := EmptyTable(r)
		assert.NotEmpty(t, table.Columns, r)
		assert.Empty(t, table.Rows, r)
	}
}
