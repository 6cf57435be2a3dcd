package model

import (
	"time"
)

// Status is the operational state of a provider as reported by the most
// recent status log entry.
type Status string

const (
	StatusOperational Status = "operational"
	StatusDegraded    Status = "degraded"
	StatusOutage      Status = "outage"
	StatusMaintenance Status = "maintenance"
)

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOperational, StatusDegraded, StatusOutage, StatusMaintenance:
		return true
	}
	return false
}

// IsDowntime reports whether s makes the provider unavailable.
func (s Status) IsDowntime() bool {
	return s == StatusOutage || s == StatusMaintenance
}

// ProviderType classifies the payment channel behind a provider.
type ProviderType string

const (
	TypeMobileMoney ProviderType = "mobile_money"
	TypeAggregator  ProviderType = "aggregator"
	TypeBank        ProviderType = "bank"
	TypeManual      ProviderType = "manual"
	TypeOther       ProviderType = "other"
)

func (t ProviderType) IsValid() bool {
	switch t {
	case TypeMobileMoney, TypeAggregator, TypeBank, TypeManual, TypeOther:
		return true
	}
	return false
}

type APIConfig struct {
	BaseURL        string            `json:"base_url,omitempty"`
	APIVersion     string            `json:"api_version,omitempty"`
	PrimaryKey     string            `json:"primary_key,omitempty"`
	SecondaryKey   string            `json:"secondary_key,omitempty"`
	Environment    string            `json:"environment,omitempty"`
	WebhookURL     string            `json:"webhook_url,omitempty"`
	WebhookSecret  string            `json:"webhook_secret,omitempty"`
	WebhookEnabled bool              `json:"webhook_enabled"`
	Headers        map[string]string `json:"headers,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
}

// FeeSchedule holds pricing parameters. A zero value means the parameter is
// unset: no fixed/percentage component, or an unbounded min/max clamp.
type FeeSchedule struct {
	FixedFee      float64 `json:"fixed_fee,omitempty"`
	PercentageFee float64 `json:"percentage_fee,omitempty"`
	MinimumFee    float64 `json:"minimum_fee,omitempty"`
	MaximumFee    float64 `json:"maximum_fee,omitempty"`
}

// TransactionLimits bounds transaction amounts. Zero means unbounded.
// DailyLimit and MonthlyLimit are carried for reporting but not enforced;
// enforcement would need a transaction ledger this service does not own.
type TransactionLimits struct {
	MinAmount           float64 `json:"min_amount,omitempty"`
	MaxAmount           float64 `json:"max_amount,omitempty"`
	DailyLimit          float64 `json:"daily_limit,omitempty"`
	MonthlyLimit        float64 `json:"monthly_limit,omitempty"`
	PerTransactionLimit float64 `json:"per_transaction_limit,omitempty"`
}

type MaintenanceWindow struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Message string    `json:"message,omitempty"`
}

// Availability is a cached projection of the most recent status log entry.
// The status log is the source of truth.
type Availability struct {
	IsAvailable          bool               `json:"is_available"`
	LastDowntime         *time.Time         `json:"last_downtime,omitempty"`
	ScheduledMaintenance *MaintenanceWindow `json:"scheduled_maintenance,omitempty"`
	UptimePct            float64            `json:"uptime_pct,omitempty"`
}

type KeyRotationPolicy struct {
	LastRotation          *time.Time `json:"last_rotation,omitempty"`
	NextScheduledRotation *time.Time `json:"next_scheduled_rotation,omitempty"`
	FrequencyDays         int        `json:"frequency_days"`
	AutoRotate            bool       `json:"auto_rotate"`
}

type ContactInfo struct {
	SupportEmail string `json:"support_email,omitempty"`
	SupportPhone string `json:"support_phone,omitempty"`
	AccountRep   string `json:"account_rep,omitempty"`
}

type Provider struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Code           string            `json:"code"`
	Type           ProviderType      `json:"type"`
	IsActive       bool              `json:"is_active"`
	APIConfig      APIConfig         `json:"api_config"`
	Fees           FeeSchedule       `json:"fees"`
	Limits         TransactionLimits `json:"limits"`
	Availability   Availability      `json:"availability"`
	KeyRotation    KeyRotationPolicy `json:"key_rotation"`
	AccountDetails map[string]string `json:"account_details,omitempty"`
	ContactInfo    ContactInfo       `json:"contact_info"`
	Metadata       map[string]any    `json:"metadata,omitempty"`
	Version        int64             `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// StatusEvent is one immutable entry in a provider's status log.
type StatusEvent struct {
	ID               string    `json:"id"`
	ProviderCode     string    `json:"provider_code"`
	Status           Status    `json:"status"`
	Message          string    `json:"message,omitempty"`
	DurationMinutes  int       `json:"duration_minutes,omitempty"`
	AffectedServices []string  `json:"affected_services,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RotationRecord is one entry in a provider's key rotation history.
type RotationRecord struct {
	ID           string    `json:"id"`
	ProviderCode string    `json:"provider_code"`
	RotatedAt    time.Time `json:"rotated_at"`
	NextRotation time.Time `json:"next_rotation"`
	Trigger      string    `json:"trigger"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RotationTriggerManual    = "manual"
	RotationTriggerScheduled = "scheduled"
)

// DefaultRotationFrequencyDays applies when a provider is created without an
// explicit rotation frequency.
const DefaultRotationFrequencyDays = 90

// KnownProviders is the closed set of provider names the service accepts,
// mapped to their expected channel type.
var KnownProviders = map[string]ProviderType{
	"Airtel Money":  TypeMobileMoney,
	"TNM Mpamba":    TypeMobileMoney,
	"PayChangu":     TypeAggregator,
	"National Bank": TypeBank,
	"Standard Bank": TypeBank,
	"FDH Bank":      TypeBank,
	"Manual Entry":  TypeManual,
}
