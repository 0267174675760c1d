package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// deletionMarker is the literal payload text that requests deletion in
// place of a document.
var deletionMarker = []byte("null")

// Document is a write payload: either a JSON document to upsert or a
// deletion marker. The zero value is neither and fails validation.
type Document struct {
	raw    json.RawMessage
	delete bool
}

// UpsertDocument wraps a JSON payload for writing. The payload is not
// validated here; ParseDocument is the validating constructor.
func UpsertDocument(raw []byte) Document {
	return Document{raw: raw}
}

// DeleteDocument returns the deletion marker.
func DeleteDocument() Document {
	return Document{delete: true}
}

// ParseDocument interprets a raw payload: the literal text "null" is the
// deletion marker, any other valid JSON is an upsert, and anything else
// is ErrMalformedPayload.
func ParseDocument(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, deletionMarker) {
		return DeleteDocument(), nil
	}
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Document{}, fmt.Errorf("%w: not valid JSON", ErrMalformedPayload)
	}
	return UpsertDocument(trimmed), nil
}

// IsDelete reports whether the document is the deletion marker.
func (d Document) IsDelete() bool {
	return d.delete
}

// IsZero reports whether the document is neither a payload nor the
// deletion marker.
func (d Document) IsZero() bool {
	return !d.delete && d.raw == nil
}

// JSON returns the payload for an upsert document, nil for the deletion
// marker.
func (d Document) JSON() json.RawMessage {
	return d.raw
}

// String returns the persisted text form: the payload for an upsert,
// "null" for the deletion marker.
func (d Document) String() string {
	if d.delete {
		return string(deletionMarker)
	}
	return string(d.raw)
}

// MarshalJSON emits the payload, or null for the deletion marker.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.delete || d.raw == nil {
		return deletionMarker, nil
	}
	return d.raw, nil
}

// UnmarshalJSON reads a document through ParseDocument, so a JSON null
// becomes the deletion marker.
func (d *Document) UnmarshalJSON(raw []byte) error {
	doc, err := ParseDocument(raw)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
