package dto

import (
	"time"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

type ProviderResponse struct {
	Provider *model.Provider `json:"provider"`
}

type ProviderListResponse struct {
	Providers  []*model.Provider `json:"providers"`
	Pagination Pagination        `json:"pagination"`
}

type QuoteResponse struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
	Limit  float64 `json:"limit,omitempty"`
	Amount float64 `json:"amount"`
	Fee    float64 `json:"fee"`
	Total  float64 `json:"total"`
}

type StatusEventResponse struct {
	Event    *model.StatusEvent `json:"event"`
	Provider *model.Provider    `json:"provider"`
}

type StatusLogResponse struct {
	Events     []model.StatusEvent `json:"events"`
	Pagination Pagination          `json:"pagination"`
}

type KeyPairResponse struct {
	PrimaryKey   string `json:"primary_key"`
	SecondaryKey string `json:"secondary_key"`
}

// RotationResponse carries the retired and the new credentials exactly once,
// so the caller can revoke the old pair upstream and propagate the new one.
// Neither pair is ever logged or persisted outside the provider record.
type RotationResponse struct {
	OldKeys      KeyPairResponse `json:"old_keys"`
	NewKeys      KeyPairResponse `json:"new_keys"`
	NextRotation time.Time       `json:"next_rotation"`
}

type RotationHistoryResponse struct {
	Rotations  []model.RotationRecord `json:"rotations"`
	Pagination Pagination             `json:"pagination"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
