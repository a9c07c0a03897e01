package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the NATS bus
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "league.console",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// NATSBus fans events out to every console instance over core NATS.
// Subjects are <prefix>.<resource>.changed.
type NATSBus struct {
	nc     *nats.Conn
	config NATSConfig
}

func NewNATSBus(cfg NATSConfig) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name("league-console"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	log.Info().Str("url", nc.ConnectedUrl()).Str("prefix", cfg.SubjectPrefix).Msg("connected to NATS")
	return &NATSBus{nc: nc, config: cfg}, nil
}

func (b *NATSBus) subject(e Event) string {
	return fmt.Sprintf("%s.%s.changed", b.config.SubjectPrefix, e.Resource)
}

func (b *NATSBus) Publish(ctx context.Context, e Event) error {
	if b.nc.IsClosed() {
		return ErrBusClosed
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := nats.NewMsg(b.subject(e))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, e.EventID)

	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}

	log.Debug().
		Str("event_id", e.EventID).
		Str("subject", msg.Subject).
		Msg("event published")
	return nil
}

func (b *NATSBus) Subscribe(ctx context.Context, h Handler) (func(), error) {
	if b.nc.IsClosed() {
		return nil, ErrBusClosed
	}
	filter := b.config.SubjectPrefix + ".*.changed"

	sub, err := b.nc.Subscribe(filter, func(msg *nats.Msg) {
		e, err := decodeEvent(msg.Data)
		if err != nil {
			log.Error().
				Err(err).
				Str("subject", msg.Subject).
				Msg("failed to process message")
			return
		}
		h(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", filter, err)
	}

	log.Info().Str("subject", filter).Msg("subscribed to console events")
	return func() {
		if err := sub.Unsubscribe(); err != nil && !b.nc.IsClosed() {
			log.Warn().Err(err).Str("subject", filter).Msg("failed to unsubscribe")
		}
	}, nil
}

func (b *NATSBus) Close() error {
	log.Info().Msg("closing NATS bus")
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
