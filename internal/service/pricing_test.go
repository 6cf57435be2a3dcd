package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

func TestComputeFee(t *testing.T) {
	t.Run("non-positive amounts cost nothing", func(t *testing.T) {
		fees := model.FeeSchedule{FixedFee: 500, PercentageFee: 10, MinimumFee: 2000}
		assert.Equal(t, 0.0, ComputeFee(fees, 0))
		assert.Equal(t, 0.0, ComputeFee(fees, -100))
	})

	t.Run("fixed plus percentage", func(t *testing.T) {
		fees := model.FeeSchedule{FixedFee: 500, PercentageFee: 10}
		assert.Equal(t, 600.0, ComputeFee(fees, 1000))
	})

	t.Run("clamps up to minimum fee", func(t *testing.T) {
		fees := model.FeeSchedule{FixedFee: 500, PercentageFee: 10, MinimumFee: 2000}
		// raw fee 500 + 100 = 600, below the floor
		assert.Equal(t, 2000.0, ComputeFee(fees, 1000))
	})

	t.Run("clamps down to maximum fee", func(t *testing.T) {
		fees := model.FeeSchedule{PercentageFee: 5, MaximumFee: 1000}
		assert.Equal(t, 1000.0, ComputeFee(fees, 1000000))
	})

	t.Run("zero maximum means unbounded", func(t *testing.T) {
		fees := model.FeeSchedule{PercentageFee: 5}
		assert.Equal(t, 50000.0, ComputeFee(fees, 1000000))
	})

	t.Run("rounds to whole currency units", func(t *testing.T) {
		fees := model.FeeSchedule{PercentageFee: 2.5}
		// 1001 * 2.5% = 25.025
		assert.Equal(t, 25.0, ComputeFee(fees, 1001))

		fees = model.FeeSchedule{PercentageFee: 1.5}
		assert.Equal(t, 7500.0, ComputeFee(fees, 500000))
	})

	t.Run("empty schedule charges nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeFee(model.FeeSchedule{}, 50000))
	})
}

func TestValidateAmount(t *testing.T) {
	limits := model.TransactionLimits{
		MinAmount:           100,
		MaxAmount:           2000000,
		PerTransactionLimit: 2000000,
	}

	t.Run("non-positive amount is invalid", func(t *testing.T) {
		for _, amount := range []float64{0, -1, -50000} {
			result := ValidateAmount(limits, amount)
			assert.False(t, result.Valid)
			assert.Equal(t, ReasonInvalidAmount, result.Reason)
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		result := ValidateAmount(limits, 50)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonBelowMinimum, result.Reason)
		assert.Equal(t, 100.0, result.Limit)
	})

	t.Run("within bounds", func(t *testing.T) {
		result := ValidateAmount(limits, 500000)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Reason)
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		assert.True(t, ValidateAmount(limits, 100).Valid)
		assert.True(t, ValidateAmount(limits, 2000000).Valid)
	})

	t.Run("above maximum", func(t *testing.T) {
		result := ValidateAmount(limits, 2000001)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonAboveMaximum, result.Reason)
		assert.Equal(t, 2000000.0, result.Limit)
	})

	t.Run("per-transaction limit checked after max", func(t *testing.T) {
		tight := model.TransactionLimits{PerTransactionLimit: 1000}
		result := ValidateAmount(tight, 5000)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonAbovePerTransaction, result.Reason)
		assert.Equal(t, 1000.0, result.Limit)
	})

	t.Run("first failing check wins", func(t *testing.T) {
		// amount violates max and per-transaction; max is reported
		both := model.TransactionLimits{MaxAmount: 1000, PerTransactionLimit: 500}
		result := ValidateAmount(both, 2000)
		assert.Equal(t, ReasonAboveMaximum, result.Reason)
	})

	t.Run("no limits accepts any positive amount", func(t *testing.T) {
		assert.True(t, ValidateAmount(model.TransactionLimits{}, 0.01).Valid)
		assert.True(t, ValidateAmount(model.TransactionLimits{}, 1e12).Valid)
	})

	t.Run("daily and monthly limits are not enforced", func(t *testing.T) {
		informational := model.TransactionLimits{DailyLimit: 100, MonthlyLimit: 100}
		assert.True(t, ValidateAmount(informational, 5000).Valid)
	})
}
