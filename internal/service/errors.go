package service

import "errors"

var (
	// ErrRotationInProgress is returned when a rotation is requested for a
	// provider that already has one running. Callers should retry later.
	ErrRotationInProgress = errors.New("key rotation already in progress")

	// ErrProviderInactive is returned when an operation targets a provider
	// that has been deactivated.
	ErrProviderInactive = errors.New("provider is not active")

	// ErrUnknownProvider is returned when a provider name is not in the
	// known provider set.
	ErrUnknownProvider = errors.New("provider name not recognized")

	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("invalid provider status")

	// ErrInvalidLimits is returned when min_amount exceeds max_amount at
	// provider construction time.
	ErrInvalidLimits = errors.New("min_amount exceeds max_amount")

	// ErrVersionConflict is returned when a version-checked save lost a race
	// against a concurrent writer. The caller should re-read and retry.
	ErrVersionConflict = errors.New("provider was modified concurrently")
)
