package web

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/mcdev12/leagueconsole/go/internal/gateway"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

//go:embed templates
var templates embed.FS

// Options configures the console HTTP server
type Options struct {
	Addr           string
	AllowedOrigins []string
	// SecureCookie marks the session cookie Secure; enable behind TLS.
	SecureCookie bool
	// MaxUploadBytes bounds logo uploads
	MaxUploadBytes int64
}

type Server struct {
	server *http.Server
}

func NewServer(opts Options, c *console.Console, hub *gateway.Hub) *Server {
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	h := &handlers{
		console:        c,
		render:         newRender(),
		secureCookie:   opts.SecureCookie,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	router := getRouter(h, gateway.NewWebSocketHandler(hub, h.username))

	crs := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           h2c.NewHandler(crs.Handler(router), &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler returns the full handler chain
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func newRender() *render.Render {
	return render.New(render.Options{
		Directory: "templates",
		Layout:    "layout",
		FileSystem: &render.EmbedFileSystem{
			FS: templates,
		},
	})
}
