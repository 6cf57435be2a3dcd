package service

import (
	"context"
	"time"

	"github.com/tkhonje/payment-provider-engine/internal/model"
)

// ProviderStore is the persistence contract the lifecycle services depend
// on. Implementations must reject version-mismatched writes (returning
// ErrVersionConflict) so concurrent saves of the same provider cannot lose
// updates, and must preserve status log append order exactly as submitted.
type ProviderStore interface {
	Insert(ctx context.Context, p *model.Provider) error
	FindByCode(ctx context.Context, code string) (*model.Provider, error)
	List(ctx context.Context, limit, offset int) ([]*model.Provider, int, error)
	SetActive(ctx context.Context, code string, active bool) (*model.Provider, error)

	// AppendStatus writes the event and the provider's updated availability
	// projection in one atomic unit.
	AppendStatus(ctx context.Context, p *model.Provider, event *model.StatusEvent) error

	// SaveRotation writes the provider's new credentials and the rotation
	// history record in one atomic unit.
	SaveRotation(ctx context.Context, p *model.Provider, rec *model.RotationRecord) error

	ListStatusLog(ctx context.Context, code string, limit, offset int) ([]model.StatusEvent, int, error)
	ListRotations(ctx context.Context, code string, limit, offset int) ([]model.RotationRecord, int, error)

	// DueForRotation returns codes of providers with auto_rotate enabled
	// whose next scheduled rotation is at or before now.
	DueForRotation(ctx context.Context, now time.Time) ([]string, error)
}
