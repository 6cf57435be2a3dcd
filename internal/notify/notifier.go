package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

// Event is a lifecycle notification. The engine emits events; the dispatcher
// decides the delivery channel. Event IDs let downstream deduplicate.
type Event struct {
	ID           string       `json:"id"`
	Kind         string       `json:"kind"`
	ProviderCode string       `json:"provider_code"`
	OccurredAt   time.Time    `json:"occurred_at"`
	OldStatus    model.Status `json:"old_status,omitempty"`
	NewStatus    model.Status `json:"new_status,omitempty"`
	Message      string       `json:"message,omitempty"`
	NextRotation *time.Time   `json:"next_rotation,omitempty"`
}

const (
	KindRotationCompleted = "rotation_completed"
	KindStatusChanged     = "status_changed"
)

// StatusChanged builds a status transition event.
func StatusChanged(code string, oldStatus, newStatus model.Status, message string) Event {
	return Event{
		ID:           uuid.NewString(),
		Kind:         KindStatusChanged,
		ProviderCode: code,
		OccurredAt:   time.Now().UTC(),
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Message:      message,
	}
}

// RotationCompleted builds a rotation event. Credentials are never carried
// in events.
func RotationCompleted(code string, nextRotation time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		Kind:         KindRotationCompleted,
		ProviderCode: code,
		OccurredAt:   time.Now().UTC(),
		NextRotation: &nextRotation,
	}
}

// Dispatcher delivers events to whatever channel is configured (SMS, email,
// push). Delivery is fire-and-forget from the engine's perspective: a
// dispatcher failure never rolls back the provider state change it reports.
type Dispatcher interface {
	Notify(ctx context.Context, event Event)
}

// LogDispatcher writes events to the structured log. It is the default
// dispatcher and the fallback when no delivery channel is configured.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Notify(_ context.Context, event Event) {
	e := log.Info().
		Str("event_id", event.ID).
		Str("kind", event.Kind).
		Str("provider", event.ProviderCode).
		Time("occurred_at", event.OccurredAt)

	if event.Kind == KindStatusChanged {
		e = e.Str("old_status", string(event.OldStatus)).
			Str("new_status", string(event.NewStatus))
	}
	if event.NextRotation != nil {
		e = e.Time("next_rotation", *event.NextRotation)
	}

	e.Msg("provider event")
}
