package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/leagueconsole/go/internal/console"
)

// EventTypeResourceChanged is the only event the console publishes
const EventTypeResourceChanged = "ResourceChanged"

// Event is the envelope sent between console instances
type Event struct {
	EventID   string           `json:"eventId"`
	EventType string           `json:"eventType"`
	Origin    string           `json:"origin"`
	Resource  console.Resource `json:"resource"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewResourceChanged builds the event for resource published by origin.
func NewResourceChanged(origin string, resource console.Resource, now time.Time) Event {
	return Event{
		EventID:   uuid.New().String(),
		EventType: EventTypeResourceChanged,
		Origin:    origin,
		Resource:  resource,
		Timestamp: now.UTC(),
	}
}

func decodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event envelope: %w", err)
	}
	if e.EventType != EventTypeResourceChanged {
		return Event{}, fmt.Errorf("unknown event type: %s", e.EventType)
	}
	if _, ok := console.ParseResource(string(e.Resource)); !ok {
		return Event{}, fmt.Errorf("unknown resource: %s", e.Resource)
	}
	return e, nil
}

// ErrBusClosed is returned by a bus after Close
var ErrBusClosed = errors.New("event bus closed")

// Handler receives delivered events
type Handler func(ctx context.Context, e Event)

// Bus moves events between console instances.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe registers h until the returned cancel func is called.
	Subscribe(ctx context.Context, h Handler) (func(), error)
	Close() error
}
