package types

import (
	"encoding/json"
	"time"
)

// EntityRequest carries one write against an entity's current state. The
// three projections are persisted together in a single statement; a
// deletion marker in WithSysAttrs removes the row instead.
type EntityRequest struct {
	// ID is the entity URI.
	ID string `json:"id"`

	// Tenant selects the target database; empty means the shared store.
	Tenant string `json:"tenant,omitempty"`

	// WithSysAttrs is the full expanded document including system
	// attributes, or the deletion marker.
	WithSysAttrs Document `json:"with_sysattrs"`

	// WithoutSysAttrs is the expanded document with system attributes
	// stripped.
	WithoutSysAttrs json.RawMessage `json:"without_sysattrs,omitempty"`

	// KeyValues is the simplified key-value projection.
	KeyValues json.RawMessage `json:"key_values,omitempty"`
}

// Validate checks the request before it reaches a database handle.
func (r EntityRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.WithSysAttrs.IsZero() {
		return ErrMalformedPayload
	}
	return nil
}

// TemporalRequest carries one temporal write batch: the entity header
// plus the expanded attribute map. Each attribute value that is an array
// of instance documents is written instance by instance; a deletion
// marker in place of a value routes to the matching deletion
// granularity.
type TemporalRequest struct {
	// ID is the temporal entity URI.
	ID string `json:"id"`

	// Type is the entity type URI.
	Type string `json:"type,omitempty"`

	// CreatedAt and ModifiedAt are the header timestamps. Both must be
	// set for the header to be written; ModifiedAt alone still bumps
	// the stored modifiedat.
	CreatedAt  time.Time `json:"created_at,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`

	// InstanceID, when set, pins every instance of the batch (and any
	// deletion marker) to one attribute instance.
	InstanceID string `json:"instance_id,omitempty"`

	// Tenant selects the target database; empty means the shared store.
	Tenant string `json:"tenant,omitempty"`

	// Attributes maps expanded attribute URIs to their raw values.
	// Header keys are skipped during the attribute phase.
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

// Validate checks the request before it reaches a database handle.
func (r TemporalRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	return nil
}

// HasHeader reports whether the request carries a complete entity
// header worth upserting.
func (r TemporalRequest) HasHeader() bool {
	return r.Type != "" && !r.CreatedAt.IsZero() && !r.ModifiedAt.IsZero()
}
