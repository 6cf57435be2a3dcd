package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tkhonje/payment-provider-engine/internal/dto"
	"github.com/tkhonje/payment-provider-engine/internal/metrics"
	"github.com/tkhonje/payment-provider-engine/internal/model"
)

type ProviderService struct {
	store   ProviderStore
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewProviderService(store ProviderStore, m *metrics.Metrics) *ProviderService {
	return &ProviderService{store: store, metrics: m, now: time.Now}
}

// NormalizeCode is how provider codes are stored and looked up everywhere:
// trimmed and uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateProvider registers a payment channel from the known provider set.
// New providers start active and operational, with key rotation scheduled
// one full frequency period out.
func (s *ProviderService) CreateProvider(ctx context.Context, req *dto.CreateProviderRequest) (*model.Provider, error) {
	name := strings.TrimSpace(req.Name)
	knownType, ok := model.KnownProviders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	pType := req.Type
	if pType == "" {
		pType = knownType
	}
	if !pType.IsValid() {
		return nil, fmt.Errorf("invalid provider type %q", pType)
	}

	if req.Limits.MinAmount > 0 && req.Limits.MaxAmount > 0 &&
		req.Limits.MinAmount > req.Limits.MaxAmount {
		return nil, ErrInvalidLimits
	}

	freq := req.RotationDays
	if freq <= 0 {
		freq = model.DefaultRotationFrequencyDays
	}

	now := s.now().UTC()
	next := now.AddDate(0, 0, freq)

	p := &model.Provider{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      NormalizeCode(req.Code),
		Type:      pType,
		IsActive:  true,
		APIConfig: req.APIConfig,
		Fees:      req.Fees,
		Limits:    req.Limits,
		Availability: model.Availability{
			IsAvailable: true,
			UptimePct:   100,
		},
		KeyRotation: model.KeyRotationPolicy{
			NextScheduledRotation: &next,
			FrequencyDays:         freq,
			AutoRotate:            req.AutoRotate,
		},
		AccountDetails: req.AccountDetails,
		ContactInfo:    req.ContactInfo,
		Metadata:       req.Metadata,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert provider: %w", err)
	}

	return p, nil
}

func (s *ProviderService) GetProvider(ctx context.Context, code string) (*model.Provider, error) {
	return s.store.FindByCode(ctx, NormalizeCode(code))
}

func (s *ProviderService) ListProviders(ctx context.Context, limit, offset int) ([]*model.Provider, int, error) {
	return s.store.List(ctx, limit, offset)
}

// SetActive toggles whether a provider may be used at all. Providers are
// never deleted; deactivation is the retirement path.
func (s *ProviderService) SetActive(ctx context.Context, code string, active bool) (*model.Provider, error) {
	return s.store.SetActive(ctx, NormalizeCode(code), active)
}

// QuoteResult is the combined outcome of limit validation and fee pricing
// for one amount.
type QuoteResult struct {
	ValidationResult
	Amount float64
	Fee    float64
}

// Quote runs the transaction processor's pre-submit check: validate the
// amount against the provider's limits, then price it. A rejected amount is
// never priced.
func (s *ProviderService) Quote(ctx context.Context, code string, amount float64) (*QuoteResult, error) {
	p, err := s.store.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProviderInactive
	}

	result := ValidateAmount(p.Limits, amount)
	if !result.Valid {
		s.metrics.QuoteRejections.WithLabelValues(string(result.Reason)).Inc()
		return &QuoteResult{ValidationResult: result, Amount: amount}, nil
	}

	return &QuoteResult{
		ValidationResult: result,
		Amount:           amount,
		Fee:              ComputeFee(p.Fees, amount),
	}, nil
}
