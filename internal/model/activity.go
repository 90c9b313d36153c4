package model

import "time"

// ActivityType enumerates the auditable actions in the system.
type ActivityType string

const (
	ActivityPriceUpdated     ActivityType = "price_updated"
	ActivityPricePublished   ActivityType = "price_published"
	ActivityPriceUnpublished ActivityType = "price_unpublished"
	ActivityProductCreated   ActivityType = "product_created"
	ActivityProductUpdated   ActivityType = "product_updated"
	ActivityProductDeleted   ActivityType = "product_deleted"
	ActivityBulkUpdate       ActivityType = "bulk_update"
	ActivitySettingsChanged  ActivityType = "settings_changed"
)

type EntityType string

const (
	EntityPrice   EntityType = "price"
	EntityProduct EntityType = "product"
	EntitySystem  EntityType = "system"
)

// FieldChange records one field moving from one value to another.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// ActivityEntry is a single audit record. Entries are immutable after append;
// the log as a whole keeps only the newest entries.
type ActivityEntry struct {
	ID         string                 `json:"id"`
	Type       ActivityType           `json:"type"`
	UserID     string                 `json:"user_id"`
	UserName   string                 `json:"user_name"`
	EntityType EntityType             `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	EntityName string                 `json:"entity_name"`
	Action     string                 `json:"action"`
	Changes    map[string]FieldChange `json:"changes,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Actor identifies the authenticated staff member performing a mutation,
// denormalized into every activity entry for display without a join.
type Actor struct {
	ID   string
	Name string
}
