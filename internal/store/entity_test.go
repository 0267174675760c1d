package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextgrid/ngsistore/pkg/types"
)

const vehicleID = "urn:ngsi-ld:Vehicle:A102"

func entityRequest(id, doc string) types.EntityRequest {
	return types.EntityRequest{
		ID:              id,
		WithSysAttrs:    types.UpsertDocument([]byte(doc)),
		WithoutSysAttrs: []byte(doc),
		KeyValues:       []byte(doc),
	}
}

func entityColumns(t *testing.T, s *Store, tenant, id string) (data, noSys, kv string) {
	t.Helper()
	db := handle(t, s, tenant)
	require.NoError(t, db.QueryRow(
		"SELECT data, data_without_sysattrs, kvdata FROM entity WHERE id = ?", id).
		Scan(&data, &noSys, &kv))
	return data, noSys, kv
}

func TestWriteEntityUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := `{"@id":"` + vehicleID + `","speed":55}`
	req := entityRequest(vehicleID, doc)

	require.NoError(t, s.WriteEntity(ctx, req))
	require.NoError(t, s.WriteEntity(ctx, req))

	assert.Equal(t, 1, countRows(t, s.def, "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))
	data, noSys, kv := entityColumns(t, s, "", vehicleID)
	assert.Equal(t, doc, data)
	assert.Equal(t, doc, noSys)
	assert.Equal(t, doc, kv)
}

func TestWriteEntityUpdatesAllProjections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteEntity(ctx, entityRequest(vehicleID, `{"v":1}`)))

	updated := types.EntityRequest{
		ID:              vehicleID,
		WithSysAttrs:    types.UpsertDocument([]byte(`{"v":2,"sys":true}`)),
		WithoutSysAttrs: []byte(`{"v":2}`),
		KeyValues:       []byte(`{"v":2}`),
	}
	require.NoError(t, s.WriteEntity(ctx, updated))

	assert.Equal(t, 1, countRows(t, s.def, "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))
	data, noSys, kv := entityColumns(t, s, "", vehicleID)
	assert.Equal(t, `{"v":2,"sys":true}`, data)
	assert.Equal(t, `{"v":2}`, noSys)
	assert.Equal(t, `{"v":2}`, kv)
}

func TestWriteEntityDeletionSentinel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteEntity(ctx, entityRequest(vehicleID, `{"v":1}`)))

	del := types.EntityRequest{ID: vehicleID, WithSysAttrs: types.DeleteDocument()}
	require.NoError(t, s.WriteEntity(ctx, del))
	assert.Equal(t, 0, countRows(t, s.def, "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))

	// A repeat delete is a no-op, not an error.
	require.NoError(t, s.WriteEntity(ctx, del))
}

func TestWriteEntityValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WriteEntity(ctx, types.EntityRequest{WithSysAttrs: types.UpsertDocument([]byte(`{}`))})
	assert.ErrorIs(t, err, types.ErrMissingID)

	err = s.WriteEntity(ctx, types.EntityRequest{ID: vehicleID})
	assert.ErrorIs(t, err, types.ErrMalformedPayload)
}

func TestWriteEntityTenantIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	reqA := entityRequest(vehicleID, `{"owner":"tenant-a"}`)
	reqA.Tenant = "a"
	reqB := entityRequest(vehicleID, `{"owner":"tenant-b"}`)
	reqB.Tenant = "b"

	require.NoError(t, s.WriteEntity(ctx, reqA))
	require.NoError(t, s.WriteEntity(ctx, reqB))

	dataA, _, _ := entityColumns(t, s, "a", vehicleID)
	dataB, _, _ := entityColumns(t, s, "b", vehicleID)
	assert.Equal(t, `{"owner":"tenant-a"}`, dataA)
	assert.Equal(t, `{"owner":"tenant-b"}`, dataB)

	// The shared store never saw the id.
	assert.Equal(t, 0, countRows(t, s.def, "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))

	// Deleting under one tenant leaves the other untouched.
	require.NoError(t, s.WriteEntity(ctx, types.EntityRequest{
		ID: vehicleID, Tenant: "a", WithSysAttrs: types.DeleteDocument(),
	}))
	assert.Equal(t, 0, countRows(t, handle(t, s, "a"), "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))
	assert.Equal(t, 1, countRows(t, handle(t, s, "b"), "SELECT COUNT(*) FROM entity WHERE id = ?", vehicleID))
}

func TestWriteEntityConcurrentTenantWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writes = 20
	done := make(chan error, writes)
	for i := 0; i < writes; i++ {
		tenant := "a"
		if i%2 == 1 {
			tenant = "b"
		}
		req := entityRequest(vehicleID, `{"owner":"tenant-`+tenant+`"}`)
		req.Tenant = tenant
		go func() { done <- s.WriteEntity(ctx, req) }()
	}
	for i := 0; i < writes; i++ {
		assert.NoError(t, <-done)
	}

	dataA, _, _ := entityColumns(t, s, "a", vehicleID)
	dataB, _, _ := entityColumns(t, s, "b", vehicleID)
	assert.Equal(t, `{"owner":"tenant-a"}`, dataA)
	assert.Equal(t, `{"owner":"tenant-b"}`, dataB)
}
