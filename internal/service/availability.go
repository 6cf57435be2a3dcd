package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkhonje/payment-provider-engine/internal/metrics"
	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/notify"
)

// AvailabilityService tracks a provider's operational status. The status log
// is append-only and is the source of truth; the availability flags on the
// provider record are a projection of the most recent entry.
type AvailabilityService struct {
	store      ProviderStore
	dispatcher notify.Dispatcher
	metrics    *metrics.Metrics
	locks      *LockTable
	now        func() time.Time
}

func NewAvailabilityService(store ProviderStore, dispatcher notify.Dispatcher, m *metrics.Metrics, locks *LockTable) *AvailabilityService {
	return &AvailabilityService{
		store:      store,
		dispatcher: dispatcher,
		metrics:    m,
		locks:      locks,
		now:        time.Now,
	}
}

type StatusInput struct {
	Status           model.Status
	Message          string
	DurationMinutes  int
	AffectedServices []string
}

// RecordStatus appends a status event and updates the availability
// projection. Any status may follow any other; outage and maintenance mark
// the provider unavailable and stamp last_downtime, everything else marks it
// available. The append and the projection update are persisted atomically:
// on failure neither is visible. A maintenance window whose end has passed
// does not restore operational status on its own; that takes another call.
func (s *AvailabilityService) RecordStatus(ctx context.Context, code string, in StatusInput) (*model.Provider, *model.StatusEvent, error) {
	if !in.Status.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	code = NormalizeCode(code)
	mu := s.locks.Lock(code)
	defer mu.Unlock()

	p, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	oldStatus := model.StatusOperational
	if last, _, err := s.store.ListStatusLog(ctx, code, 1, 0); err == nil && len(last) > 0 {
		oldStatus = last[0].Status
	}

	now := s.now().UTC()
	event := &model.StatusEvent{
		ID:               uuid.NewString(),
		ProviderCode:     code,
		Status:           in.Status,
		Message:          in.Message,
		DurationMinutes:  in.DurationMinutes,
		AffectedServices: in.AffectedServices,
		CreatedAt:        now,
	}

	if in.Status.IsDowntime() {
		p.Availability.IsAvailable = false
		p.Availability.LastDowntime = &now
	} else {
		p.Availability.IsAvailable = true
	}
	p.UpdatedAt = now

	if err := s.store.AppendStatus(ctx, p, event); err != nil {
		return nil, nil, fmt.Errorf("append status: %w", err)
	}

	s.metrics.StatusChanges.WithLabelValues(string(in.Status)).Inc()
	s.dispatcher.Notify(ctx, notify.StatusChanged(code, oldStatus, in.Status, in.Message))

	return p, event, nil
}

// StatusLog returns the provider's status history, newest first.
func (s *AvailabilityService) StatusLog(ctx context.Context, code string, limit, offset int) ([]model.StatusEvent, int, error) {
	return s.store.ListStatusLog(ctx, NormalizeCode(code), limit, offset)
}
