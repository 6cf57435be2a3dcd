package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tkhonje/payment-provider-engine/internal/metrics"
	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/notify"
)

const secretBytes = 32

// KeyPair is one primary/secondary credential set.
type KeyPair struct {
	Primary   string
	Secondary string
}

// RotationResult hands the retired and replacement credentials to the caller
// exactly once, so the old pair can be revoked upstream and the new pair
// propagated to the transaction processor.
type RotationResult struct {
	OldKeys      KeyPair
	NewKeys      KeyPair
	NextRotation time.Time
}

// RotationService replaces provider credentials on demand and on schedule.
// At most one rotation runs per provider at any time.
type RotationService struct {
	store      ProviderStore
	dispatcher notify.Dispatcher
	metrics    *metrics.Metrics
	locks      *LockTable
	parallel   int
	now        func() time.Time
	randRead   func([]byte) (int, error)
}

func NewRotationService(store ProviderStore, dispatcher notify.Dispatcher, m *metrics.Metrics, locks *LockTable, parallel int) *RotationService {
	if parallel < 1 {
		parallel = 1
	}
	return &RotationService{
		store:      store,
		dispatcher: dispatcher,
		metrics:    m,
		locks:      locks,
		parallel:   parallel,
		now:        time.Now,
		randRead:   rand.Read,
	}
}

func (s *RotationService) generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := s.randRead(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RotateKeys replaces both credentials of a provider and reschedules the
// next rotation one frequency period out from now. The old keys stay
// authoritative until the new record is durably saved: a random-source or
// persistence failure aborts the rotation with no visible state change.
// A rotation already in flight makes this call fail with
// ErrRotationInProgress rather than queue behind it.
func (s *RotationService) RotateKeys(ctx context.Context, code, trigger string) (*RotationResult, error) {
	code = NormalizeCode(code)

	mu, ok := s.locks.TryLock(code)
	if !ok {
		s.metrics.Rotations.WithLabelValues(trigger, "conflict").Inc()
		return nil, ErrRotationInProgress
	}
	defer mu.Unlock()

	p, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	newPrimary, err := s.generateSecret()
	if err != nil {
		s.metrics.Rotations.WithLabelValues(trigger, "random_failure").Inc()
		return nil, fmt.Errorf("generate primary key: %w", err)
	}
	newSecondary, err := s.generateSecret()
	if err != nil {
		s.metrics.Rotations.WithLabelValues(trigger, "random_failure").Inc()
		return nil, fmt.Errorf("generate secondary key: %w", err)
	}

	oldKeys := KeyPair{
		Primary:   p.APIConfig.PrimaryKey,
		Secondary: p.APIConfig.SecondaryKey,
	}

	freq := p.KeyRotation.FrequencyDays
	if freq <= 0 {
		freq = model.DefaultRotationFrequencyDays
	}

	now := s.now().UTC()
	next := now.AddDate(0, 0, freq)

	p.APIConfig.PrimaryKey = newPrimary
	p.APIConfig.SecondaryKey = newSecondary
	p.KeyRotation.LastRotation = &now
	p.KeyRotation.NextScheduledRotation = &next
	p.UpdatedAt = now

	rec := &model.RotationRecord{
		ID:           uuid.NewString(),
		ProviderCode: code,
		RotatedAt:    now,
		NextRotation: next,
		Trigger:      trigger,
		CreatedAt:    now,
	}

	if err := s.store.SaveRotation(ctx, p, rec); err != nil {
		s.metrics.Rotations.WithLabelValues(trigger, "persist_failure").Inc()
		return nil, fmt.Errorf("save rotation: %w", err)
	}

	s.metrics.Rotations.WithLabelValues(trigger, "success").Inc()
	s.dispatcher.Notify(ctx, notify.RotationCompleted(code, next))

	return &RotationResult{
		OldKeys:      oldKeys,
		NewKeys:      KeyPair{Primary: newPrimary, Secondary: newSecondary},
		NextRotation: next,
	}, nil
}

// RotationHistory returns past rotations, newest first. Credentials are not
// part of the history.
func (s *RotationService) RotationHistory(ctx context.Context, code string, limit, offset int) ([]model.RotationRecord, int, error) {
	return s.store.ListRotations(ctx, NormalizeCode(code), limit, offset)
}

// RunScheduler sweeps for due rotations until ctx is cancelled. It runs one
// sweep immediately, then one per interval.
func (s *RotationService) RunScheduler(ctx context.Context, interval time.Duration) {
	log.Info().Dur("interval", interval).Msg("rotation scheduler started")

	s.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("rotation scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep rotates every active provider whose scheduled rotation is due, a few
// at a time. A provider with a rotation already in flight is skipped, not
// queued.
func (s *RotationService) Sweep(ctx context.Context) {
	codes, err := s.store.DueForRotation(ctx, s.now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("list due rotations")
		return
	}
	if len(codes) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)

	for _, code := range codes {
		code := code
		g.Go(func() error {
			_, err := s.RotateKeys(gctx, code, model.RotationTriggerScheduled)
			switch {
			case errors.Is(err, ErrRotationInProgress):
				log.Debug().Str("provider", code).Msg("rotation already running, skipped")
			case err != nil:
				log.Error().Err(err).Str("provider", code).Msg("scheduled rotation failed")
			}
			return nil
		})
	}

	_ = g.Wait()
}
