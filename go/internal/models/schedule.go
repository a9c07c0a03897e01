package models

import "time"

// ScheduleStatus represents the lifecycle state of a scheduled match
type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCanceled  ScheduleStatus = "canceled"
)

// Schedule is a single match between two teams of a league.
// Scores are nil until a result has been recorded.
type Schedule struct {
	ID         string         `json:"id"`
	LeagueID   string         `json:"league_id"`
	HomeTeamID string         `json:"home_team_id"`
	AwayTeamID string         `json:"away_team_id"`
	MatchDate  time.Time      `json:"match_date"`
	Status     ScheduleStatus `json:"status"`
	HomeScore  *int           `json:"home_score,omitempty"`
	AwayScore  *int           `json:"away_score,omitempty"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// IsCompleted reports whether a result has been recorded for the match
func (s Schedule) IsCompleted() bool {
	return s.Status == ScheduleStatusCompleted
}
