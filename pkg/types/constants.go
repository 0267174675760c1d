package types

// JSON-LD keywords and expanded NGSI-LD terms as they appear in
// expanded entity payloads.
const (
	JSONLDID   = "@id"
	JSONLDType = "@type"

	NGSILDCreatedAt  = "https://uri.etsi.org/ngsi-ld/createdAt"
	NGSILDModifiedAt = "https://uri.etsi.org/ngsi-ld/modifiedAt"
	NGSILDInstanceID = "https://uri.etsi.org/ngsi-ld/instanceId"
)

// TenantHeader is the HTTP header carrying the tenant id upstream.
const TenantHeader = "NGSILD-Tenant"

// TenantDatabasePrefix prefixes a tenant id to form its logical database
// name.
const TenantDatabasePrefix = "ngb"

// IsHeaderKey reports whether an attribute key belongs to the entity
// header rather than to the attribute payload. Header keys are consumed
// by the header phase of a temporal write and never stored as attribute
// instances.
func IsHeaderKey(key string) bool {
	switch key {
	case JSONLDID, JSONLDType, NGSILDCreatedAt, NGSILDModifiedAt:
		return true
	}
	return false
}
