package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mcdev12/leagueconsole/go/clients/league_api_client"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// Fixture mirrors the seed JSON
type Fixture struct {
	Leagues []struct {
		Name    string `json:"name"`
		LogoURL string `json:"logo_url"`
		Teams   []struct {
			Name      string   `json:"name"`
			EloRating *float64 `json:"elo_rating"`
		} `json:"teams"`
	} `json:"leagues"`
}

type summary struct {
	inserted int
	skipped  int
	errs     int
}

func main() {
	_ = godotenv.Load()

	path := getEnv("SEED_FILE", "go/internal/assets/league_seed.json")
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	creds := &models.AdminCredentials{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if !creds.Complete() {
		fmt.Fprintln(os.Stderr, "ADMIN_USERNAME and ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	client := league_api_client.NewLeagueAPIClient(getEnv("BACKEND_URL", "http://localhost:8081"))
	leagues, teams, err := seed(context.Background(), client, creds, fixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf(
		"Leagues seed complete: %d inserted, %d skipped, %d errors\n",
		leagues.inserted, leagues.skipped, leagues.errs,
	)
	fmt.Printf(
		"Teams seed complete: %d inserted, %d skipped, %d errors\n",
		teams.inserted, teams.skipped, teams.errs,
	)
}

// seed creates every league and team of the fixture that the backend does not
// already have, matching by name. Create calls return no id, so leagues are
// listed again to resolve the ids their teams need.
func seed(ctx context.Context, client *league_api_client.LeagueAPIClient, creds *models.AdminCredentials, fixture Fixture) (summary, summary, error) {
	var leagueSum, teamSum summary

	existing, err := client.ListLeagues(ctx)
	if err != nil {
		return leagueSum, teamSum, err
	}
	known := make(map[string]bool, len(existing))
	for _, l := range existing {
		known[l.Name] = true
	}

	for _, l := range fixture.Leagues {
		if known[l.Name] {
			leagueSum.skipped++
			continue
		}
		_, err := client.CreateLeague(ctx, creds, league_api_client.CreateLeagueRequest{Name: l.Name, LogoURL: l.LogoURL})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating league %s: %v\n", l.Name, err)
			leagueSum.errs++
			continue
		}
		leagueSum.inserted++
	}

	existing, err = client.ListLeagues(ctx)
	if err != nil {
		return leagueSum, teamSum, err
	}
	ids := make(map[string]string, len(existing))
	for _, l := range existing {
		ids[l.Name] = l.ID
	}

	for _, l := range fixture.Leagues {
		leagueID, ok := ids[l.Name]
		if !ok {
			teamSum.errs += len(l.Teams)
			continue
		}
		current, err := client.ListTeams(ctx, league_api_client.TeamFilter{LeagueID: leagueID})
		if err != nil {
			return leagueSum, teamSum, err
		}
		have := make(map[string]bool, len(current))
		for _, t := range current {
			have[t.Name] = true
		}

		for _, t := range l.Teams {
			if have[t.Name] {
				teamSum.skipped++
				continue
			}
			_, err := client.CreateTeam(ctx, creds, league_api_client.CreateTeamRequest{
				LeagueID:  leagueID,
				Name:      t.Name,
				EloRating: t.EloRating,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "error creating team %s: %v\n", t.Name, err)
				teamSum.errs++
				continue
			}
			teamSum.inserted++
		}
	}

	return leagueSum, teamSum, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
