package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/tkhonje/payment-provider-engine/internal/metrics"
	"github.com/tkhonje/payment-provider-engine/internal/middleware"
	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/notify"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

// memStore is enough of a ProviderStore to run the full route stack without
// a database. Version checks mirror the Postgres repository.
type memStore struct {
	mu        sync.Mutex
	providers map[string]*model.Provider
	statusLog map[string][]model.StatusEvent
	rotations map[string][]model.RotationRecord
}

var _ service.ProviderStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		providers: make(map[string]*model.Provider),
		statusLog: make(map[string][]model.StatusEvent),
		rotations: make(map[string][]model.RotationRecord),
	}
}

func (s *memStore) Insert(_ context.Context, p *model.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.providers[p.Code] = &c
	return nil
}

func (s *memStore) FindByCode(_ context.Context, code string) (*model.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c := *p
	return &c, nil
}

func (s *memStore) List(_ context.Context, limit, offset int) ([]*model.Provider, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*model.Provider
	for _, p := range s.providers {
		c := *p
		all = append(all, &c)
	}
	return all, len(all), nil
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
	c := *p
	return &c, nil
}

func (s *memStore) AppendStatus(_ context.Context, p *model.Provider, event *model.StatusEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.providers[p.Code]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != p.Version {
		return service.ErrVersionConflict
	}
	s.statusLog[p.Code] = append(s.statusLog[p.Code], *event)
	c := *p
	c.Version++
	s.providers[p.Code] = &c
	p.Version++
	return nil
}

func (s *memStore) SaveRotation(_ context.Context, p *model.Provider, rec *model.RotationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.providers[p.Code]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != p.Version {
		return service.ErrVersionConflict
	}
	s.rotations[p.Code] = append(s.rotations[p.Code], *rec)
	c := *p
	c.Version++
	s.providers[p.Code] = &c
	p.Version++
	return nil
}

func (s *memStore) ListStatusLog(_ context.Context, code string, limit, offset int) ([]model.StatusEvent, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.statusLog[code]
	out := make([]model.StatusEvent, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out, len(all), nil
}

func (s *memStore) ListRotations(_ context.Context, code string, limit, offset int) ([]model.RotationRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.rotations[code]
	out := make([]model.RotationRecord, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out, len(all), nil
}

func (s *memStore) DueForRotation(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var codes []string
	for code, p := range s.providers {
		if !p.IsActive || !p.KeyRotation.AutoRotate {
			continue
		}
		if next := p.KeyRotation.NextScheduledRotation; next != nil && !next.After(now) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// newTestRouter wires the full route stack over an in-memory store.
func newTestRouter(store service.ProviderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := metrics.New("test")
	dispatcher := notify.NewLogDispatcher()
	locks := service.NewLockTable()

	providerSvc := service.NewProviderService(store, m)
	availabilitySvc := service.NewAvailabilityService(store, dispatcher, m, locks)
	rotationSvc := service.NewRotationService(store, dispatcher, m, locks, 1)

	router := gin.New()
	router.Use(middleware.ErrorHandler())

	providerHandler := NewProviderHandler(providerSvc)
	statusHandler := NewStatusHandler(availabilitySvc)
	rotationHandler := NewRotationHandler(rotationSvc)

	api := router.Group("/api/v1")
	{
		api.POST("/providers", providerHandler.Create)
		api.GET("/providers", providerHandler.List)
		api.GET("/providers/:code", providerHandler.Get)
		api.PATCH("/providers/:code", providerHandler.Update)
		api.POST("/providers/:code/quote", providerHandler.Quote)
		api.POST("/providers/:code/status", statusHandler.Record)
		api.GET("/providers/:code/status/log", statusHandler.Log)
		api.POST("/providers/:code/rotate", rotationHandler.Rotate)
		api.GET("/providers/:code/rotations", rotationHandler.History)
	}

	return router
}
