package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntityRequestValidate(t *testing.T) {
	valid := EntityRequest{
		ID:           "urn:ngsi-ld:Vehicle:A102",
		WithSysAttrs: UpsertDocument([]byte(`{}`)),
	}
	assert.NoError(t, valid.Validate())

	del := EntityRequest{ID: "urn:ngsi-ld:Vehicle:A102", WithSysAttrs: DeleteDocument()}
	assert.NoError(t, del.Validate())

	assert.ErrorIs(t, EntityRequest{WithSysAttrs: UpsertDocument([]byte(`{}`))}.Validate(), ErrMissingID)
	assert.ErrorIs(t, EntityRequest{ID: "urn:ngsi-ld:Vehicle:A102"}.Validate(), ErrMalformedPayload)
}

func TestTemporalRequestValidate(t *testing.T) {
	assert.NoError(t, TemporalRequest{ID: "urn:ngsi-ld:Vehicle:A102"}.Validate())
	assert.ErrorIs(t, TemporalRequest{}.Validate(), ErrMissingID)
}

func TestTemporalRequestHasHeader(t *testing.T) {
	now := time.Now()
	full := TemporalRequest{
		ID:         "urn:ngsi-ld:Vehicle:A102",
		Type:       "https://example.org/vehicle/Vehicle",
		CreatedAt:  now,
		ModifiedAt: now,
	}
	assert.True(t, full.HasHeader())

	noType := full
	noType.Type = ""
	assert.False(t, noType.HasHeader())

	noCreated := full
	noCreated.CreatedAt = time.Time{}
	assert.False(t, noCreated.HasHeader())

	noModified := full
	noModified.ModifiedAt = time.Time{}
	assert.False(t, noModified.HasHeader())
}

func TestIsHeaderKey(t *testing.T) {
	for _, key := range []string{JSONLDID, JSONLDType, NGSILDCreatedAt, NGSILDModifiedAt} {
		assert.True(t, IsHeaderKey(key), key)
	}
	assert.False(t, IsHeaderKey(NGSILDInstanceID))
	assert.False(t, IsHeaderKey("https://example.org/vehicle/speed"))
}
