package dto

import (
	"github.com/tkhonje/payment-provider-engine/internal/model"
)

type CreateProviderRequest struct {
	Name           string                  `json:"name" binding:"required"`
	Code           string                  `json:"code" binding:"required"`
	Type           model.ProviderType      `json:"type" binding:"omitempty,oneof=mobile_money aggregator bank manual other"`
	APIConfig      model.APIConfig         `json:"api_config"`
	Fees           model.FeeSchedule       `json:"fees"`
	Limits         model.TransactionLimits `json:"limits"`
	RotationDays   int                     `json:"rotation_frequency_days" binding:"omitempty,gt=0"`
	AutoRotate     bool                    `json:"auto_rotate"`
	AccountDetails map[string]string       `json:"account_details"`
	ContactInfo    model.ContactInfo       `json:"contact_info"`
	Metadata       map[string]any          `json:"metadata"`
}

type UpdateProviderRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type QuoteRequest struct {
	Amount float64 `json:"amount"`
}

type RecordStatusRequest struct {
	Status           model.Status `json:"status" binding:"required,oneof=operational degraded outage maintenance"`
	Message          string       `json:"message"`
	DurationMinutes  int          `json:"duration_minutes" binding:"omitempty,gte=0"`
	AffectedServices []string     `json:"affected_services"`
}
