package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		delete  bool
		wantErr error
	}{
		{name: "object", raw: `{"v":1}`},
		{name: "array", raw: `[{"v":1},{"v":2}]`},
		{name: "deletion marker", raw: `null`, delete: true},
		{name: "deletion marker with whitespace", raw: "  null\n", delete: true},
		{name: "json string null is a payload", raw: `"null"`},
		{name: "empty", raw: ``, wantErr: ErrMalformedPayload},
		{name: "truncated", raw: `{"v":`, wantErr: ErrMalformedPayload},
		{name: "garbage", raw: `not json`, wantErr: ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.delete, doc.IsDelete())
			assert.False(t, doc.IsZero())
		})
	}
}

func TestDocumentString(t *testing.T) {
	assert.Equal(t, `{"v":1}`, UpsertDocument([]byte(`{"v":1}`)).String())
	assert.Equal(t, "null", DeleteDocument().String())
}

func TestDocumentZeroValue(t *testing.T) {
	var doc Document
	assert.True(t, doc.IsZero())
	assert.False(t, doc.IsDelete())
	assert.Nil(t, doc.JSON())
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	t.Run("payload", func(t *testing.T) {
		out, err := json.Marshal(UpsertDocument([]byte(`{"v":1}`)))
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(out))

		var doc Document
		require.NoError(t, json.Unmarshal(out, &doc))
		assert.False(t, doc.IsDelete())
		assert.JSONEq(t, `{"v":1}`, string(doc.JSON()))
	})

	t.Run("deletion marker", func(t *testing.T) {
		out, err := json.Marshal(DeleteDocument())
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))

		var doc Document
		require.NoError(t, json.Unmarshal(out, &doc))
		assert.True(t, doc.IsDelete())
	})
}
