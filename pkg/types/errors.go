package types

import "errors"

// Write-path errors. Callers branch on these with errors.Is; the store
// wraps driver errors into the taxonomy before returning them.
var (
	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = errors.New("store is closed")

	// ErrMissingID marks a request without an entity id.
	ErrMissingID = errors.New("entity id must not be empty")

	// ErrTransientConnection marks a failure worth retrying: a deadline
	// hit, a dropped connection, or a transaction torn down underneath
	// the caller.
	ErrTransientConnection = errors.New("transient connection failure")

	// ErrTenantResolution marks a failure to map a tenant onto a usable
	// database handle.
	ErrTenantResolution = errors.New("tenant resolution failed")

	// ErrConstraintViolation marks a write rejected by a schema
	// constraint.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrMalformedPayload marks a document that is neither valid JSON
	// nor the deletion marker.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrTenantNotFound marks a lookup for a tenant with no registry
	// mapping.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantEmpty marks a tenant operation on an empty tenant id.
	ErrTenantEmpty = errors.New("tenant id must not be empty")
)
