package services

import "errors"

// Error kinds surfaced by the approval workflow. Controllers map these to
// HTTP status codes; anything else is reported as a generic failure.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
)
