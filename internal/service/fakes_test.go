package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/notify"
)

// memStore is an in-memory ProviderStore with the same semantics as the
// Postgres repository: version-checked writes, append-only logs, and clones
// on every read so caller mutations stay invisible until saved.
type memStore struct {
	mu        sync.Mutex
	providers map[string]*model.Provider
	statusLog map[string][]model.StatusEvent
	rotations map[string][]model.RotationRecord

	saveErr error // injected write failure

	// when set, SaveRotation signals enterSave and blocks on releaseSave,
	// letting tests race a second rotation against one in flight
	enterSave   chan struct{}
	releaseSave chan struct{}
}

var _ ProviderStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		providers: make(map[string]*model.Provider),
		statusLog: make(map[string][]model.StatusEvent),
		rotations: make(map[string][]model.RotationRecord),
	}
}

func cloneProvider(p *model.Provider) *model.Provider {
	c := *p
	if p.Availability.LastDowntime != nil {
		t := *p.Availability.LastDowntime
		c.Availability.LastDowntime = &t
	}
	if p.Availability.ScheduledMaintenance != nil {
		w := *p.Availability.ScheduledMaintenance
		c.Availability.ScheduledMaintenance = &w
	}
	if p.KeyRotation.LastRotation != nil {
		t := *p.KeyRotation.LastRotation
		c.KeyRotation.LastRotation = &t
	}
	if p.KeyRotation.NextScheduledRotation != nil {
		t := *p.KeyRotation.NextScheduledRotation
		c.KeyRotation.NextScheduledRotation = &t
	}
	return &c
}

func (s *memStore) Insert(_ context.Context, p *model.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.Code] = cloneProvider(p)
	return nil
}

func (s *memStore) FindByCode(_ context.Context, code string) (*model.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneProvider(p), nil
}

func (s *memStore) List(_ context.Context, limit, offset int) ([]*model.Provider, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*model.Provider
	for _, p := range s.providers {
		all = append(all, cloneProvider(p))
	}
	return all, len(s.providers), nil
}

func (s *memStore) SetActive(_ context.Context, code string, active bool) (*model.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.IsActive = active
	p.Version++
	return cloneProvider(p), nil
}

func (s *memStore) AppendStatus(_ context.Context, p *model.Provider, event *model.StatusEvent) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.providers[p.Code]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != p.Version {
		return ErrVersionConflict
	}

	s.statusLog[p.Code] = append(s.statusLog[p.Code], *event)
	saved := cloneProvider(p)
	saved.Version++
	s.providers[p.Code] = saved
	p.Version++
	return nil
}

func (s *memStore) SaveRotation(_ context.Context, p *model.Provider, rec *model.RotationRecord) error {
	if s.enterSave != nil {
		s.enterSave <- struct{}{}
		<-s.releaseSave
	}
	if s.saveErr != nil {
		return s.saveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.providers[p.Code]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != p.Version {
		return ErrVersionConflict
	}

	s.rotations[p.Code] = append(s.rotations[p.Code], *rec)
	saved := cloneProvider(p)
	saved.Version++
	s.providers[p.Code] = saved
	p.Version++
	return nil
}

func (s *memStore) ListStatusLog(_ context.Context, code string, limit, offset int) ([]model.StatusEvent, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.statusLog[code]
	total := len(all)

	// newest first, like the repository
	reversed := make([]model.StatusEvent, 0, total)
	for i := total - 1; i >= 0; i-- {
		reversed = append(reversed, all[i])
	}

	if offset >= len(reversed) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[offset:end], total, nil
}

func (s *memStore) ListRotations(_ context.Context, code string, limit, offset int) ([]model.RotationRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.rotations[code]
	total := len(all)

	reversed := make([]model.RotationRecord, 0, total)
	for i := total - 1; i >= 0; i-- {
		reversed = append(reversed, all[i])
	}

	if offset >= len(reversed) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(reversed) {
		end = len(reversed)
	}
	return reversed[offset:end], total, nil
}

func (s *memStore) DueForRotation(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var codes []string
	for code, p := range s.providers {
		if !p.IsActive || !p.KeyRotation.AutoRotate {
			continue
		}
		next := p.KeyRotation.NextScheduledRotation
		if next != nil && !next.After(now) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func seedProvider(s *memStore, code string) *model.Provider {
	next := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Provider{
		ID:       "9f0c2f6e-0000-4000-8000-000000000001",
		Name:     "Airtel Money",
		Code:     code,
		Type:     model.TypeMobileMoney,
		IsActive: true,
		APIConfig: model.APIConfig{
			PrimaryKey:   "old-primary",
			SecondaryKey: "old-secondary",
			Environment:  "sandbox",
		},
		Fees:   model.FeeSchedule{PercentageFee: 2.5, MinimumFee: 100},
		Limits: model.TransactionLimits{MinAmount: 100, MaxAmount: 750000},
		Availability: model.Availability{
			IsAvailable: true,
			UptimePct:   100,
		},
		KeyRotation: model.KeyRotationPolicy{
			NextScheduledRotation: &next,
			FrequencyDays:         90,
			AutoRotate:            true,
		},
		Version: 1,
	}
	_ = s.Insert(context.Background(), p)
	return p
}

// recordingDispatcher captures events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *recordingDispatcher) Notify(_ context.Context, event notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Events() []notify.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notify.Event, len(d.events))
	copy(out, d.events)
	return out
}
