package store

import (
	"context"
	"fmt"

	"github.com/contextgrid/ngsistore/pkg/types"
)

// WriteEntity upserts or deletes the three persisted projections of an
// entity's current state. An upsert sets all three columns in a single
// statement so no partial-column update is ever observable; the deletion
// marker removes the row. Repeat deletes are no-ops.
func (s *Store) WriteEntity(ctx context.Context, req types.EntityRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	db, err := s.handleFor(ctx, req.Tenant)
	if err != nil {
		return err
	}

	ctx, cancel := s.txContext(ctx)
	defer cancel()

	if req.WithSysAttrs.IsDelete() {
		res, err := db.ExecContext(ctx,
			"DELETE FROM entity WHERE id = ?", req.ID)
		if err != nil {
			s.log.Error().Err(err).Str("id", req.ID).Msg("deleting entity")
			return fmt.Errorf("deleting entity: %w", classify(err))
		}
		if n, err := res.RowsAffected(); err == nil {
			s.log.Trace().Int64("rows", n).Str("id", req.ID).Msg("entity deleted")
		}
		return nil
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO entity (id, data, data_without_sysattrs, kvdata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			data_without_sysattrs = excluded.data_without_sysattrs,
			kvdata = excluded.kvdata`,
		req.ID, req.WithSysAttrs.String(),
		string(req.WithoutSysAttrs), string(req.KeyValues))
	if err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Msg("upserting entity")
		return fmt.Errorf("upserting entity: %w", classify(err))
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Trace().Int64("rows", n).Str("id", req.ID).Msg("entity written")
	}
	return nil
}
