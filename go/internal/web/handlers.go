package web

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/mcdev12/leagueconsole/go/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// SessionCookieName holds the session id, never the credentials
const SessionCookieName = "console_session"

type handlers struct {
	console        *console.Console
	render         *render.Render
	secureCookie   bool
	maxUploadBytes int64
}

type navLink struct {
	Section console.Section
	Label   string
	Active  bool
}

var sectionLabels = map[console.Section]string{
	console.SectionLeagues:   "Leagues",
	console.SectionTeams:     "Teams",
	console.SectionSchedules: "Schedules",
}

type pageData struct {
	View     console.View
	Nav      []navLink
	LoggedIn bool
	Username string
	Snapshot console.Snapshot
	Flashes  map[string]console.Flash
}

// outcomeResponse is the JSON answer to a form post from a script client
type outcomeResponse struct {
	Flash     console.Flash `json:"flash"`
	Refetched bool          `json:"refetched"`
}

func (h *handlers) currentSession(r *http.Request) *session.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return h.console.Session(r.Context(), cookie.Value)
}

// username identifies websocket connections
func (h *handlers) username(r *http.Request) string {
	if s := h.currentSession(r); s != nil {
		return s.Credentials.Username
	}
	return ""
}

// page builds the page data. Page loads fetch every table; form responses
// reuse the current tables since the mutation already refetched its own.
func (h *handlers) page(r *http.Request, s *session.Session, view console.View, load bool, flashes ...console.Flash) pageData {
	data := pageData{
		View:     view,
		LoggedIn: s != nil,
		Flashes:  make(map[string]console.Flash, len(flashes)),
	}
	if load {
		data.Snapshot = h.console.Load(r.Context())
	} else {
		data.Snapshot = h.console.Snapshot()
	}
	if s != nil {
		data.Username = s.Credentials.Username
	}
	for _, sec := range console.Sections {
		label, ok := sectionLabels[sec]
		if !ok {
			continue
		}
		data.Nav = append(data.Nav, navLink{Section: sec, Label: label, Active: view.IsActive(sec)})
	}
	now := h.console.Now()
	for _, f := range flashes {
		if f.Visible(now) {
			data.Flashes[string(f.Area)] = f
		}
	}
	return data
}

func (h *handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	if err := h.render.HTML(w, status, "index", data); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(r)
	view := console.InitialView(r.URL.Query().Get("section"), s != nil)
	h.renderPage(w, r, http.StatusOK, h.page(r, s, view, true))
}

func (h *handlers) admin(w http.ResponseWriter, r *http.Request) {
	s := h.currentSession(r)
	current := console.View{Active: console.DefaultSection}
	if sec, ok := console.ParseSection(r.URL.Query().Get("section")); ok {
		current = current.Show(sec)
	}
	h.renderPage(w, r, http.StatusOK, h.page(r, s, console.AdminView(current, s != nil), true))
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Text(w, http.StatusBadRequest, err.Error())
		return
	}
	form := console.LoginForm{
		Username: r.PostForm.Get("adminUsername"),
		Password: r.PostForm.Get("adminPassword"),
	}

	s, flash, err := h.console.Login(r.Context(), form, remoteAddr(r))
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		h.render.Text(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if flash != nil {
		view := console.View{Active: console.DefaultSection, LoginOverlayOpen: true}
		h.renderPage(w, r, http.StatusUnprocessableEntity, h.page(r, nil, view, false, *flash))
		return
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if s.ExpiresAt != nil {
		cookie.Expires = *s.ExpiresAt
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/?section="+string(console.SectionAdmin), http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.console.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("failed to end session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// respond answers a form post: JSON for script clients, otherwise the page
// with the admin section open and the outcome's flash.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, s *session.Session, out console.Outcome) {
	status := http.StatusOK
	if out.Flash.IsError() {
		status = http.StatusUnprocessableEntity
	}
	if wantsJSON(r) {
		h.render.JSON(w, status, outcomeResponse{Flash: out.Flash, Refetched: out.Refetched})
		return
	}
	view := console.View{Active: console.SectionAdmin}
	h.renderPage(w, r, status, h.page(r, s, view, false, out.Flash))
}

func (h *handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.render.Text(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *handlers) createLeague(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	s := h.currentSession(r)
	out := h.console.CreateLeague(r.Context(), s, console.CreateLeagueForm{
		Name:    r.PostForm.Get("leagueName"),
		LogoURL: r.PostForm.Get("leagueLogoUrl"),
	})
	h.respond(w, r, s, out)
}

func (h *handlers) createTeam(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	s := h.currentSession(r)
	out := h.console.CreateTeam(r.Context(), s, console.CreateTeamForm{
		LeagueID: r.PostForm.Get("teamLeagueId"),
		Name:     r.PostForm.Get("teamName"),
		Elo:      r.PostForm.Get("teamElo"),
	})
	h.respond(w, r, s, out)
}

func (h *handlers) createSchedule(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	s := h.currentSession(r)
	out := h.console.CreateSchedule(r.Context(), s, console.CreateScheduleForm{
		LeagueID:   r.PostForm.Get("scheduleLeagueId"),
		HomeTeamID: r.PostForm.Get("homeTeamId"),
		AwayTeamID: r.PostForm.Get("awayTeamId"),
		MatchDate:  r.PostForm.Get("matchDate"),
	})
	h.respond(w, r, s, out)
}

func (h *handlers) updateResult(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	s := h.currentSession(r)
	out := h.console.UpdateResult(r.Context(), s, console.UpdateResultForm{
		ScheduleID: r.PostForm.Get("scheduleId"),
		HomeScore:  r.PostForm.Get("homeScore"),
		AwayScore:  r.PostForm.Get("awayScore"),
	})
	h.respond(w, r, s, out)
}

func (h *handlers) uploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.render.Text(w, http.StatusRequestEntityTooLarge, "logo file too large")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			h.render.Text(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	form := console.UploadLogoForm{TeamID: r.FormValue("logoTeamId")}
	file, header, err := r.FormFile("logoFile")
	switch {
	case err == nil:
		defer file.Close()
		form.File = file
		form.Filename = header.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.render.Text(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.currentSession(r)
	h.respond(w, r, s, h.console.UploadLogo(r.Context(), s, form))
}

func (h *handlers) table(w http.ResponseWriter, r *http.Request) {
	resource, ok := console.ParseResource(chi.URLParam(r, "resource"))
	if !ok {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "unknown table"})
		return
	}
	if r.URL.Query().Get("refresh") == "true" {
		_ = h.console.Refresh(r.Context(), resource)
	}
	table, _ := h.console.Table(resource)
	h.render.JSON(w, http.StatusOK, table)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	h.render.Text(w, http.StatusOK, "OK")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
