package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mcdev12/leagueconsole/go/internal/gateway"
	"github.com/rs/zerolog/log"
)

func getRouter(h *handlers, ws *gateway.WebSocketHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	// websocket routes must not get a request timeout
	ws.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/", h.index)
		r.Get("/admin", h.admin)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Route("/console", func(r chi.Router) {
			r.Post("/leagues", h.createLeague)
			r.Post("/teams", h.createTeam)
			r.Post("/schedules", h.createSchedule)
			r.Post("/results", h.updateResult)
			r.Post("/logos", h.uploadLogo)
			r.Get("/tables/{resource}", h.table)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
