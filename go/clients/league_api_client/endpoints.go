package league_api_client

const (
	// Public endpoints
	LeaguesEndpoint   = "/leagues"
	TeamsEndpoint     = "/teams"
	SchedulesEndpoint = "/schedules"

	// Admin endpoints, protected by Basic Auth on the backend
	AdminLeaguesEndpoint        = "/admin/leagues"
	AdminTeamsEndpoint          = "/admin/teams"
	AdminSchedulesEndpoint      = "/admin/schedules"
	AdminScheduleResultEndpoint = "/admin/schedules/%s/result"
	AdminTeamLogoEndpoint       = "/admin/teams/%s/logo"

	// Query parameters
	LeagueIDParam = "league_id"
	StatusParam   = "status"

	// Multipart field carrying the logo file
	LogoFormField = "logo"
)
