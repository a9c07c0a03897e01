package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/rs/zerolog/log"
)

// Refresher reloads one table; *console.Console satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, resource console.Resource) error
}

// Relay connects one console instance to a Bus. It publishes the console's
// own changes and refreshes the console when another instance reports one.
type Relay struct {
	bus       Bus
	origin    string
	refresher Refresher
	clock     clockwork.Clock
}

func NewRelay(bus Bus, refresher Refresher) *Relay {
	return &Relay{
		bus:       bus,
		origin:    uuid.New().String(),
		refresher: refresher,
		clock:     clockwork.NewRealClock(),
	}
}

// Origin is the id stamped on events this relay publishes
func (r *Relay) Origin() string {
	return r.origin
}

// ResourceChanged implements console.ChangeNotifier.
func (r *Relay) ResourceChanged(ctx context.Context, resource console.Resource) error {
	return r.bus.Publish(ctx, NewResourceChanged(r.origin, resource, r.clock.Now()))
}

// Start subscribes to the bus until ctx is done.
func (r *Relay) Start(ctx context.Context) error {
	cancel, err := r.bus.Subscribe(ctx, r.handle)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return nil
}

func (r *Relay) handle(ctx context.Context, e Event) {
	if e.Origin == r.origin {
		return
	}
	log.Debug().
		Str("event_id", e.EventID).
		Str("origin", e.Origin).
		Str("resource", string(e.Resource)).
		Msg("refreshing after remote change")

	// failures are already logged by the refresher
	_ = r.refresher.Refresh(ctx, e.Resource)
}
