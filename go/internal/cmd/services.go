package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/leagueconsole/go/clients/league_api_client"
	"github.com/mcdev12/leagueconsole/go/internal/config"
	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/mcdev12/leagueconsole/go/internal/events"
	"github.com/mcdev12/leagueconsole/go/internal/gateway"
	"github.com/mcdev12/leagueconsole/go/internal/session"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Console  *console.Console
	Sessions *session.Manager
	Hub      *gateway.Hub
	Bus      events.Bus
	Relay    *events.Relay

	pool *pgxpool.Pool
	cfg  *config.Config
}

func setupServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	// Wire up dependency injection chain
	// Client → Sessions → Console → Hub / Event relay
	s := &Services{cfg: cfg}

	client := league_api_client.NewLeagueAPIClientWithTimeout(cfg.Backend.URL, cfg.Backend.Timeout)

	store, err := s.setupSessionStore(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Sessions = session.NewManager(store, cfg.Session.TTL)

	loc, err := cfg.Location()
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Hub = gateway.NewHub(gateway.DefaultConnectionConfig())
	s.Console = console.New(client, s.Sessions, console.Options{
		Display:  console.DisplayOptions{Location: loc, DateLayout: cfg.Display.DateLayout},
		Listener: s.Hub,
	})

	if cfg.Events.NATSURL != "" {
		natsCfg := events.DefaultNATSConfig()
		natsCfg.URL = cfg.Events.NATSURL
		natsCfg.SubjectPrefix = cfg.Events.SubjectPrefix
		bus, err := events.NewNATSBus(natsCfg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Bus = bus
	} else {
		s.Bus = events.NewLocalBus()
	}
	s.Relay = events.NewRelay(s.Bus, s.Console)
	s.Console.SetNotifier(s.Relay)

	return s, nil
}

func (s *Services) setupSessionStore(ctx context.Context) (session.Store, error) {
	if s.cfg.Session.Store != config.SessionStorePostgres {
		return session.NewMemoryStore(), nil
	}

	pool, err := setupDatabase(ctx)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	sealer, err := session.NewSealer(s.cfg.Session.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create session sealer: %w", err)
	}
	store := session.NewPostgresStore(pool, sealer, s.cfg.Session.Table)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Start runs the background workers until ctx is done and warms the tables.
func (s *Services) Start(ctx context.Context) {
	go s.Hub.Start(ctx)

	if err := s.Relay.Start(ctx); err != nil {
		log.Error().Err(err).Msg("failed to subscribe to console events")
	}

	go s.Sessions.RunSweeper(ctx, s.cfg.Session.SweepInterval)

	s.Console.Load(ctx)
}

func (s *Services) Close() {
	if s.Bus != nil {
		if err := s.Bus.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event bus")
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
