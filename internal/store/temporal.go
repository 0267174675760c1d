package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contextgrid/ngsistore/pkg/types"
)

// timeFormat is how header timestamps are persisted.
const timeFormat = time.RFC3339Nano

// newInstanceID generates an attribute-instance id when the request and the
// instance document carry none.
func newInstanceID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteTemporalEntity applies one temporal write batch: for each attribute
// in the request whose value is an array of instance documents, every
// instance runs in its own transaction containing the header upsert, the
// overwrite delete for the first instance of the attribute, the instance
// upsert, and the modifiedat bump. A deletion marker in place of a value
// routes to the matching deletion granularity. The first failed statement
// rolls back its transaction and fails the batch; nothing is retried here.
func (s *Store) WriteTemporalEntity(ctx context.Context, req types.TemporalRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	db, err := s.handleFor(ctx, req.Tenant)
	if err != nil {
		return err
	}

	for attrID, raw := range req.Attributes {
		// Header keys are consumed by the header phase only.
		if types.IsHeaderKey(attrID) {
			continue
		}

		doc, err := types.ParseDocument(raw)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", attrID, err)
		}
		if doc.IsDelete() {
			if err := s.deleteGranular(ctx, db, req, attrID); err != nil {
				return err
			}
			continue
		}

		// Only array values are instance batches; scalar and object
		// values are not temporal attribute payloads.
		var instances []json.RawMessage
		if err := json.Unmarshal(doc.JSON(), &instances); err != nil {
			continue
		}

		for i, element := range instances {
			instance, err := types.ParseDocument(element)
			if err != nil {
				return fmt.Errorf("attribute %s instance %d: %w", attrID, i, err)
			}
			if instance.IsDelete() {
				if err := s.deleteGranular(ctx, db, req, attrID); err != nil {
					return err
				}
				continue
			}
			// The first instance of an attribute's batch replaces the
			// attribute's prior instance set.
			overwrite := i == 0
			if err := s.writeInstance(ctx, db, req, attrID, instance, overwrite); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeInstance runs the single-instance unit of work inside one
// transaction: header upsert, overwrite delete, instance upsert, modifiedat
// bump. A crash or statement failure leaves none of them committed.
func (s *Store) writeInstance(ctx context.Context, db *sql.DB, req types.TemporalRequest,
	attrID string, instance types.Document, overwrite bool) error {

	txCtx, cancel := s.txContext(ctx)
	defer cancel()

	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning temporal tx: %w", classify(err))
	}
	defer tx.Rollback()

	if req.HasHeader() {
		if _, err := tx.ExecContext(txCtx, `
			INSERT INTO temporalentity (id, type, createdat, modifiedat)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				type = excluded.type,
				createdat = excluded.createdat,
				modifiedat = excluded.modifiedat`,
			req.ID, req.Type,
			req.CreatedAt.Format(timeFormat),
			req.ModifiedAt.Format(timeFormat)); err != nil {
			s.log.Error().Err(err).Str("id", req.ID).Msg("upserting temporal entity")
			return fmt.Errorf("upserting temporal entity: %w", classify(err))
		}
	}

	if overwrite {
		if _, err := tx.ExecContext(txCtx, `
			DELETE FROM temporalentity_attributeinstance
			WHERE temporalentity_id = ? AND attributeid = ?`,
			req.ID, attrID); err != nil {
			s.log.Error().Err(err).Str("id", req.ID).Str("attribute", attrID).
				Msg("overwrite delete")
			return fmt.Errorf("overwrite delete for %s: %w", attrID, classify(err))
		}
	}

	instanceID := resolveInstanceID(req, instance)
	if _, err := tx.ExecContext(txCtx, `
		INSERT INTO temporalentity_attributeinstance (temporalentity_id, attributeid, instanceid, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(temporalentity_id, attributeid, instanceid) DO UPDATE SET
			data = excluded.data`,
		req.ID, attrID, instanceID, instance.String()); err != nil {
		s.log.Error().Err(err).Str("id", req.ID).Str("attribute", attrID).
			Msg("upserting attribute instance")
		return fmt.Errorf("upserting instance of %s: %w", attrID, classify(err))
	}

	if !req.ModifiedAt.IsZero() {
		if _, err := tx.ExecContext(txCtx, `
			UPDATE temporalentity SET modifiedat = ? WHERE id = ?`,
			req.ModifiedAt.Format(timeFormat), req.ID); err != nil {
			return fmt.Errorf("bumping modifiedat: %w", classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing temporal tx: %w", classify(err))
	}
	s.log.Trace().Str("id", req.ID).Str("attribute", attrID).
		Str("instance", instanceID).Bool("overwrite", overwrite).
		Msg("attribute instance written")
	return nil
}

// resolveInstanceID picks the instance id for one attribute instance: the
// document's own instanceId term when present, else the request-level
// instanceId, else a generated UUID v7.
func resolveInstanceID(req types.TemporalRequest, instance types.Document) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(instance.JSON(), &fields); err == nil {
		if raw, ok := fields[types.NGSILDInstanceID]; ok {
			if id := idFromTerm(raw); id != "" {
				return id
			}
		}
	}
	if req.InstanceID != "" {
		return req.InstanceID
	}
	return newInstanceID()
}

// idFromTerm extracts an id from an expanded NGSI-LD term value, which is
// either a plain string or an array of {"@id": ...} objects.
func idFromTerm(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var refs []struct {
		ID string `json:"@id"`
	}
	if err := json.Unmarshal(raw, &refs); err == nil && len(refs) > 0 {
		return refs[0].ID
	}
	return ""
}

// deleteGranular routes a deletion marker to the most specific granularity
// the request identifies: instance, then attribute.
func (s *Store) deleteGranular(ctx context.Context, db *sql.DB, req types.TemporalRequest, attrID string) error {
	if req.InstanceID != "" {
		return s.deleteInstanceOn(ctx, db, req.ID, attrID, req.InstanceID)
	}
	return s.deleteAttributeOn(ctx, db, req.ID, attrID)
}

// DeleteTemporalEntity removes the temporal entity row; the schema-level
// cascade removes its attribute instances. Repeat deletes are no-ops.
func (s *Store) DeleteTemporalEntity(ctx context.Context, tenant, id string) error {
	if id == "" {
		return types.ErrMissingID
	}
	db, err := s.handleFor(ctx, tenant)
	if err != nil {
		return err
	}
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM temporalentity WHERE id = ?", id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("deleting temporal entity")
		return fmt.Errorf("deleting temporal entity: %w", classify(err))
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Trace().Int64("rows", n).Str("id", id).Msg("temporal entity deleted")
	}
	return nil
}

// DeleteAttribute removes every instance of one attribute of a temporal
// entity. Repeat deletes are no-ops.
func (s *Store) DeleteAttribute(ctx context.Context, tenant, id, attrID string) error {
	if id == "" {
		return types.ErrMissingID
	}
	db, err := s.handleFor(ctx, tenant)
	if err != nil {
		return err
	}
	return s.deleteAttributeOn(ctx, db, id, attrID)
}

// DeleteAttributeInstance removes exactly one attribute instance.
// Repeat deletes are no-ops.
func (s *Store) DeleteAttributeInstance(ctx context.Context, tenant, id, attrID, instanceID string) error {
	if id == "" {
		return types.ErrMissingID
	}
	db, err := s.handleFor(ctx, tenant)
	if err != nil {
		return err
	}
	return s.deleteInstanceOn(ctx, db, id, attrID, instanceID)
}

func (s *Store) deleteAttributeOn(ctx context.Context, db *sql.DB, id, attrID string) error {
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		DELETE FROM temporalentity_attributeinstance
		WHERE temporalentity_id = ? AND attributeid = ?`,
		id, attrID); err != nil {
		s.log.Error().Err(err).Str("id", id).Str("attribute", attrID).Msg("deleting attribute")
		return fmt.Errorf("deleting attribute %s: %w", attrID, classify(err))
	}
	return nil
}

func (s *Store) deleteInstanceOn(ctx context.Context, db *sql.DB, id, attrID, instanceID string) error {
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		DELETE FROM temporalentity_attributeinstance
		WHERE temporalentity_id = ? AND attributeid = ? AND instanceid = ?`,
		id, attrID, instanceID); err != nil {
		s.log.Error().Err(err).Str("id", id).Str("attribute", attrID).
			Str("instance", instanceID).Msg("deleting attribute instance")
		return fmt.Errorf("deleting instance of %s: %w", attrID, classify(err))
	}
	return nil
}
