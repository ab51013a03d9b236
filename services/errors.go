package services

import "errors"

// Error kinds every operation can surface. Handlers map these onto HTTP
// statuses; the retry wrapper treats everything except ErrBackendUnavailable
// as permanent.
var (
	// ErrBackendUnavailable wraps a transient store failure that survived
	// the retry policy.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound means a required entity does not exist. Lookups whose
	// contract allows absence (Get, FindByInviteCode) return nil instead.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the caller's input violates a precondition.
	ErrValidation = errors.New("validation failed")

	// ErrCodeGenerationExhausted means a unique invite code could not be
	// issued within the attempt bound. The whole creation may be retried.
	ErrCodeGenerationExhausted = errors.New("invite code generation exhausted")

	// ErrPermissionDenied means the caller is not allowed to perform the
	// operation.
	ErrPermissionDenied = errors.New("permission denied")
)
