package services

// Service error taxonomy. Handlers map these to HTTP status codes in one
// place (handleServiceError); nothing below is used for control flow beyond
// that mapping.

// ValidationError carries every failing field at once so the UI can show
// them together.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// StorageError wraps backing-store failures; callers may retry at their
// discretion, the service itself never does.
type StorageError struct{ Message string }

func (e *StorageError) Error() string { return e.Message }
