package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

type providerProfile struct {
	Name   string
	Code   string
	Type   model.ProviderType
	Fees   model.FeeSchedule
	Limits model.TransactionLimits
	Env    string
	Auto   bool
}

// Amounts are MWK. Fee and limit figures follow the published tariffs of
// each channel closely enough for a sandbox deployment.
var providerProfiles = []providerProfile{
	{
		Name: "Airtel Money", Code: "AIRTEL_MONEY", Type: model.TypeMobileMoney,
		Fees:   model.FeeSchedule{PercentageFee: 2.5, MinimumFee: 100, MaximumFee: 15000},
		Limits: model.TransactionLimits{MinAmount: 100, MaxAmount: 750000, DailyLimit: 1500000, MonthlyLimit: 15000000, PerTransactionLimit: 750000},
		Env:    "production", Auto: true,
	},
	{
		Name: "TNM Mpamba", Code: "TNM_MPAMBA", Type: model.TypeMobileMoney,
		Fees:   model.FeeSchedule{PercentageFee: 2.2, MinimumFee: 100, MaximumFee: 12000},
		Limits: model.TransactionLimits{MinAmount: 100, MaxAmount: 500000, DailyLimit: 1000000, MonthlyLimit: 10000000, PerTransactionLimit: 500000},
		Env:    "production", Auto: true,
	},
	{
		Name: "PayChangu", Code: "PAYCHANGU", Type: model.TypeAggregator,
		Fees:   model.FeeSchedule{FixedFee: 150, PercentageFee: 3},
		Limits: model.TransactionLimits{MinAmount: 500, MaxAmount: 5000000, PerTransactionLimit: 5000000},
		Env:    "sandbox", Auto: true,
	},
	{
		Name: "National Bank", Code: "NBM", Type: model.TypeBank,
		Fees:   model.FeeSchedule{FixedFee: 500},
		Limits: model.TransactionLimits{MinAmount: 1000, MaxAmount: 25000000},
		Env:    "production", Auto: true,
	},
	{
		Name: "Standard Bank", Code: "STANDARD_BANK", Type: model.TypeBank,
		Fees:   model.FeeSchedule{FixedFee: 650},
		Limits: model.TransactionLimits{MinAmount: 1000, MaxAmount: 25000000},
		Env:    "production", Auto: true,
	},
	{
		Name: "FDH Bank", Code: "FDH", Type: model.TypeBank,
		Fees:   model.FeeSchedule{FixedFee: 450},
		Limits: model.TransactionLimits{MinAmount: 1000, MaxAmount: 10000000},
		Env:    "production", Auto: true,
	},
	{
		Name: "Manual Entry", Code: "MANUAL", Type: model.TypeManual,
		Env:  "production", Auto: false,
	},
}

// SeedData inserts the closed provider set. Idempotent: a non-empty
// providers table is left alone.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM providers").Scan(&count); err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, p := range providerProfiles {
		next := now.AddDate(0, 0, model.DefaultRotationFrequencyDays)
		_, err := tx.Exec(ctx,
			`INSERT INTO providers (id, name, code, type, is_active, api_config, fees, limits, availability, key_rotation, account_details, contact_info, metadata)
			VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $8, $9, '{}', '{}', '{}')`,
			uuid.NewString(), p.Name, p.Code, string(p.Type),
			model.APIConfig{Environment: p.Env, APIVersion: "v1", TimeoutSeconds: 30},
			p.Fees, p.Limits,
			model.Availability{IsAvailable: true, UptimePct: 100},
			model.KeyRotationPolicy{
				NextScheduledRotation: &next,
				FrequencyDays:         model.DefaultRotationFrequencyDays,
				AutoRotate:            p.Auto,
			},
		)
		if err != nil {
			return fmt.Errorf("insert provider %s: %w", p.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Int("providers", len(providerProfiles)).Msg("seed data inserted")
	return nil
}
