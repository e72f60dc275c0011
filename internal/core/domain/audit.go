package domain

import (
	"fmt"
	"time"
)

// Audit actions. Metadata carries a small closed set of keys per action:
// Created:       image_url, brand_ids, category_id (parts); email (users)
// Updated:       before, after
// Deleted:       image_url
// LinkedVehicle: vehicle_id, brand_id, model, start_year, end_year
// Promoted:      role
const (
	ActionCreated       = "Created"
	ActionUpdated       = "Updated"
	ActionDeleted       = "Deleted"
	ActionLinkedVehicle = "LinkedVehicle"
	ActionPromoted      = "Promoted"
)

const (
	EntityAutoPart = "AutoPart"
	EntityBrand    = "Brand"
	EntityCategory = "Category"
	EntityUser     = "User"
	EntityVehicle  = "Vehicle"
)

// AuditEntry is one append-only record in the audit log, keyed by entity and
// ordered by timestamp.
type AuditEntry struct {
	EntityType string                 `json:"entity_type"`
	EntityID   int64                  `json:"entity_id"`
	Username   string                 `json:"username"`
	Action     string                 `json:"action"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// PartitionKey builds the "{EntityType}#{EntityId}" key the log store
// partitions on.
func (e *AuditEntry) PartitionKey() string {
	return fmt.Sprintf("%s#%d", e.EntityType, e.EntityID)
}
