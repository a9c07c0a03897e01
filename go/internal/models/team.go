package models

// DefaultEloRating is the rating the backend assigns when a team is created
// without one.
const DefaultEloRating = 1500.0

// Team represents a team in a league
type Team struct {
	ID        string  `json:"id"`
	LeagueID  string  `json:"league_id"`
	Name      string  `json:"name"`
	EloRating float64 `json:"elo_rating"`
	LogoURL   string  `json:"logo_url,omitempty"`
}
