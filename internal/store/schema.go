// Package store implements the write-path persistence engine: tenant-aware
// datasource routing, entity snapshot persistence, and the temporal
// attribute-instance write protocol, over per-database SQLite files.
package store

// Schema DDL for the data tables, applied to every logical database.
// Table and column names are kept compatible with the broker's write path.
// Timestamps are stored as RFC3339 text. The attribute-instance foreign key
// cascades so that deleting a temporal entity removes its instances at the
// schema level, not in the coordinator.
const (
	createEntity = `CREATE TABLE IF NOT EXISTS entity (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    data_without_sysattrs TEXT NOT NULL,
    kvdata TEXT NOT NULL
);`

	createTemporalEntity = `CREATE TABLE IF NOT EXISTS temporalentity (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    createdat TEXT NOT NULL,
    modifiedat TEXT NOT NULL
);`

	createAttributeInstance = `CREATE TABLE IF NOT EXISTS temporalentity_attributeinstance (
    temporalentity_id TEXT NOT NULL,
    attributeid TEXT NOT NULL,
    instanceid TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (temporalentity_id, attributeid, instanceid),
    FOREIGN KEY (temporalentity_id) REFERENCES temporalentity(id) ON DELETE CASCADE
);`
)

// Tenant mapping DDL, applied only to the default database.
const createTenant = `CREATE TABLE IF NOT EXISTS tenant (
    tenant_id TEXT PRIMARY KEY,
    database_name TEXT NOT NULL
);`

// Index DDL for the per-attribute instance scans and deletes.
const idxAttributeInstanceAttr = `CREATE INDEX IF NOT EXISTS idx_attrinstance_attr
    ON temporalentity_attributeinstance(temporalentity_id, attributeid);`

// schemaDDL lists the statements applied to every logical database, in
// dependency order.
var schemaDDL = []string{
	createEntity,
	createTemporalEntity,
	createAttributeInstance,
	idxAttributeInstanceAttr,
}
