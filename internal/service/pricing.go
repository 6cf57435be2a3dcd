package service

import (
	"math"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

// RejectionReason identifies which check failed in ValidateAmount.
type RejectionReason string

const (
	ReasonInvalidAmount       RejectionReason = "invalid_amount"
	ReasonBelowMinimum        RejectionReason = "below_minimum"
	ReasonAboveMaximum        RejectionReason = "above_maximum"
	ReasonAbovePerTransaction RejectionReason = "above_per_transaction_limit"
)

// ValidationResult is the structured outcome of an amount check. When the
// amount is rejected, Limit carries the bound that was violated so callers
// can surface it.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Reason RejectionReason `json:"reason,omitempty"`
	Limit  float64         `json:"limit,omitempty"`
}

// ComputeFee prices an amount under a fee schedule. Non-positive amounts cost
// nothing. The raw fee is fixed + amount*percentage/100, clamped to the
// schedule's minimum/maximum when those are set, and rounded to whole
// currency units (MWK has no subunits). Pure; safe for concurrent use.
func ComputeFee(fees model.FeeSchedule, amount float64) float64 {
	if amount <= 0 {
		return 0
	}

	fee := fees.FixedFee + amount*fees.PercentageFee/100

	if fees.MinimumFee > 0 && fee < fees.MinimumFee {
		fee = fees.MinimumFee
	}
	if fees.MaximumFee > 0 && fee > fees.MaximumFee {
		fee = fees.MaximumFee
	}

	return math.Round(fee)
}

// ValidateAmount checks an amount against a provider's configured limits.
// Checks run in a fixed order and the first failure wins: positivity, then
// min_amount, max_amount, per_transaction_limit. Bounds are inclusive.
// Daily and monthly limits are not checked here; see TransactionLimits.
// Pure; safe for concurrent use.
func ValidateAmount(limits model.TransactionLimits, amount float64) ValidationResult {
	if amount <= 0 {
		return ValidationResult{Valid: false, Reason: ReasonInvalidAmount}
	}
	if limits.MinAmount > 0 && amount < limits.MinAmount {
		return ValidationResult{Valid: false, Reason: ReasonBelowMinimum, Limit: limits.MinAmount}
	}
	if limits.MaxAmount > 0 && amount > limits.MaxAmount {
		return ValidationResult{Valid: false, Reason: ReasonAboveMaximum, Limit: limits.MaxAmount}
	}
	if limits.PerTransactionLimit > 0 && amount > limits.PerTransactionLimit {
		return ValidationResult{Valid: false, Reason: ReasonAbovePerTransaction, Limit: limits.PerTransactionLimit}
	}
	return ValidationResult{Valid: true}
}
