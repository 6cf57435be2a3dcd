package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tkhonje/payment-provider-engine/internal/model"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

const providerColumns = `id, name, code, type, is_active, api_config, fees, limits, availability, key_rotation, account_details, contact_info, metadata, version, created_at, updated_at`

// ProviderRepository is the Postgres implementation of service.ProviderStore.
// Concurrent saves of the same provider are guarded by the version column:
// an update that does not match the version it read fails with
// service.ErrVersionConflict instead of overwriting.
type ProviderRepository struct {
	pool *pgxpool.Pool
}

var _ service.ProviderStore = (*ProviderRepository)(nil)

func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner) (*model.Provider, error) {
	p := &model.Provider{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Type, &p.IsActive,
		&p.APIConfig, &p.Fees, &p.Limits, &p.Availability, &p.KeyRotation,
		&p.AccountDetails, &p.ContactInfo, &p.Metadata,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProviderRepository) Insert(ctx context.Context, p *model.Provider) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO providers (id, name, code, type, is_active, api_config, fees, limits, availability, key_rotation, account_details, contact_info, metadata, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Code, string(p.Type), p.IsActive,
		p.APIConfig, p.Fees, p.Limits, p.Availability, p.KeyRotation,
		p.AccountDetails, p.ContactInfo, p.Metadata,
		p.Version, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProviderRepository) FindByCode(ctx context.Context, code string) (*model.Provider, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE code = $1`, code)
	return scanProvider(row)
}

func (r *ProviderRepository) List(ctx context.Context, limit, offset int) ([]*model.Provider, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+providerColumns+` FROM providers ORDER BY code LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

func (r *ProviderRepository) SetActive(ctx context.Context, code string, active bool) (*model.Provider, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE providers SET is_active = $2, version = version + 1, updated_at = NOW()
		WHERE code = $1
		RETURNING `+providerColumns, code, active)
	return scanProvider(row)
}

// AppendStatus writes the status event and the provider's availability
// projection in one transaction. The provider update is version-checked so a
// concurrent writer on another instance cannot be silently overwritten.
func (r *ProviderRepository) AppendStatus(ctx context.Context, p *model.Provider, event *model.StatusEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO provider_status_log (id, provider_code, status, message, duration_minutes, affected_services, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.ProviderCode, string(event.Status), event.Message,
		event.DurationMinutes, event.AffectedServices, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE providers SET availability = $2, version = version + 1, updated_at = $3
		WHERE code = $1 AND version = $4`,
		p.Code, p.Availability, p.UpdatedAt, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}

	p.Version++
	return nil
}

// SaveRotation writes the new credentials and the rotation history record in
// one transaction, version-checked like AppendStatus.
func (r *ProviderRepository) SaveRotation(ctx context.Context, p *model.Provider, rec *model.RotationRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE providers SET api_config = $2, key_rotation = $3, version = version + 1, updated_at = $4
		WHERE code = $1 AND version = $5`,
		p.Code, p.APIConfig, p.KeyRotation, p.UpdatedAt, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrVersionConflict
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO key_rotation_history (id, provider_code, rotated_at, next_rotation, triggered_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.ProviderCode, rec.RotatedAt, rec.NextRotation, rec.Trigger, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rotation record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}

	p.Version++
	return nil
}

func (r *ProviderRepository) ListStatusLog(ctx context.Context, code string, limit, offset int) ([]model.StatusEvent, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM provider_status_log WHERE provider_code = $1`, code).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count status events: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, provider_code, status, message, duration_minutes, affected_services, created_at
		FROM provider_status_log WHERE provider_code = $1
		ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		code, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list status events: %w", err)
	}
	defer rows.Close()

	var events []model.StatusEvent
	for rows.Next() {
		var e model.StatusEvent
		if err := rows.Scan(&e.ID, &e.ProviderCode, &e.Status, &e.Message,
			&e.DurationMinutes, &e.AffectedServices, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan status event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *ProviderRepository) ListRotations(ctx context.Context, code string, limit, offset int) ([]model.RotationRecord, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM key_rotation_history WHERE provider_code = $1`, code).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count rotations: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, provider_code, rotated_at, next_rotation, triggered_by, created_at
		FROM key_rotation_history WHERE provider_code = $1
		ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		code, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list rotations: %w", err)
	}
	defer rows.Close()

	var records []model.RotationRecord
	for rows.Next() {
		var rec model.RotationRecord
		if err := rows.Scan(&rec.ID, &rec.ProviderCode, &rec.RotatedAt,
			&rec.NextRotation, &rec.Trigger, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan rotation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *ProviderRepository) DueForRotation(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code FROM providers
		WHERE is_active
		AND (key_rotation ->> 'auto_rotate')::boolean
		AND (key_rotation ->> 'next_scheduled_rotation') IS NOT NULL
		AND (key_rotation ->> 'next_scheduled_rotation')::timestamptz <= $1
		ORDER BY code`, now)
	if err != nil {
		return nil, fmt.Errorf("list due rotations: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
