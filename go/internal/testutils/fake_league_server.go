package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// Credentials accepted by the fake backend's admin routes.
const (
	FakeAdminUsername = "admin"
	FakeAdminPassword = "secret"
)

// RecordedRequest is one request received by the fake backend.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          []byte
}

// FakeLeagueServer mimics the league backend's REST surface and records
// every request it receives.
type FakeLeagueServer struct {
	s *httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	failures  map[string]int
	nextID    int
	leagues   []models.League
	teams     []models.Team
	schedules []models.Schedule
}

func NewFakeLeagueServer() *FakeLeagueServer {
	f := &FakeLeagueServer{
		failures:  make(map[string]int),
		leagues:   []models.League{},
		teams:     []models.Team{},
		schedules: []models.Schedule{},
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Use(f.injectFailures)

	r.Get("/leagues", f.listLeagues)
	r.Get("/teams", f.listTeams)
	r.Get("/schedules", f.listSchedules)

	r.Route("/admin", func(r chi.Router) {
		r.Use(basicAuth)
		r.Post("/leagues", f.createLeague)
		r.Post("/teams", f.createTeam)
		r.Post("/schedules", f.createSchedule)
		r.Put("/schedules/{id}/result", f.updateResult)
		r.Post("/teams/{id}/logo", f.uploadLogo)
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeLeagueServer) Close() {
	f.s.Close()
}

func (f *FakeLeagueServer) URL() string {
	return f.s.URL
}

// FailWith makes every request to method+path answer with status.
func (f *FakeLeagueServer) FailWith(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = status
}

func (f *FakeLeagueServer) SetLeagues(leagues ...models.League) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leagues = append([]models.League{}, leagues...)
}

func (f *FakeLeagueServer) SetTeams(teams ...models.Team) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams = append([]models.Team{}, teams...)
}

func (f *FakeLeagueServer) SetSchedules(schedules ...models.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules = append([]models.Schedule{}, schedules...)
}

// Requests returns a copy of every recorded request in arrival order.
func (f *FakeLeagueServer) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest{}, f.requests...)
}

// RequestsFor returns the recorded requests matching method and path.
func (f *FakeLeagueServer) RequestsFor(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, req := range f.Requests() {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Count returns how many requests matched method and path.
func (f *FakeLeagueServer) Count(method, path string) int {
	return len(f.RequestsFor(method, path))
}

func (f *FakeLeagueServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		f.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (f *FakeLeagueServer) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, found := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if found {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if username != FakeAdminUsername || password != FakeAdminPassword {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeLeagueServer) listLeagues(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.leagues)
}

func (f *FakeLeagueServer) listTeams(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")

	f.mu.Lock()
	defer f.mu.Unlock()
	teams := []models.Team{}
	for _, t := range f.teams {
		if leagueID == "" || t.LeagueID == leagueID {
			teams = append(teams, t)
		}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (f *FakeLeagueServer) listSchedules(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	status := r.URL.Query().Get("status")

	f.mu.Lock()
	defer f.mu.Unlock()
	schedules := []models.Schedule{}
	for _, s := range f.schedules {
		if leagueID != "" && s.LeagueID != leagueID {
			continue
		}
		if status != "" && string(s.Status) != status {
			continue
		}
		schedules = append(schedules, s)
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (f *FakeLeagueServer) createLeague(w http.ResponseWriter, r *http.Request) {
	var league models.League
	if err := json.NewDecoder(r.Body).Decode(&league); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	league.ID = f.newID("league")
	f.leagues = append(f.leagues, league)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "League created"})
}

func (f *FakeLeagueServer) createTeam(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if team.EloRating == 0 {
		team.EloRating = models.DefaultEloRating
	}

	f.mu.Lock()
	team.ID = f.newID("team")
	f.teams = append(f.teams, team)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Team created"})
}

func (f *FakeLeagueServer) createSchedule(w http.ResponseWriter, r *http.Request) {
	var sch models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sch.Status == "" {
		sch.Status = models.ScheduleStatusScheduled
	}
	if sch.MatchDate.IsZero() {
		sch.MatchDate = time.Now().Add(24 * time.Hour).UTC()
	}

	f.mu.Lock()
	sch.ID = f.newID("schedule")
	f.schedules = append(f.schedules, sch)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Schedule created"})
}

func (f *FakeLeagueServer) updateResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		HomeScore *int `json:"home_score"`
		AwayScore *int `json:"away_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.schedules {
		if f.schedules[i].ID != id {
			continue
		}
		f.schedules[i].HomeScore = req.HomeScore
		f.schedules[i].AwayScore = req.AwayScore
		f.schedules[i].Status = models.ScheduleStatusCompleted
		writeJSON(w, http.StatusOK, map[string]string{"message": "Match completed and ELO updated"})
		return
	}
	http.Error(w, "Schedule not found", http.StatusNotFound)
}

func (f *FakeLeagueServer) uploadLogo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Error parsing form data", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	logoURL := fmt.Sprintf("/uploads/%s%s", id, filepath.Ext(header.Filename))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams[i].LogoURL = logoURL
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logo uploaded successfully", "logo_url": logoURL})
}

// newID must be called with f.mu held.
func (f *FakeLeagueServer) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
