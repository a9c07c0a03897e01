package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type subscription struct {
	id int
	h  Handler
}

// LocalBus delivers events to subscribers in the same process. Delivery is
// synchronous, in subscription order.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
	closed bool
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(ctx, e)
	}

	log.Debug().
		Str("event_id", e.EventID).
		Str("resource", string(e.Resource)).
		Int("subscribers", len(subs)).
		Msg("event delivered locally")
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}, nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
	return nil
}
