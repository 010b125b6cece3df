package models

import "encoding/json"

// Preset is a saved filter set owned by one system user.
type Preset struct {
	ID               int64           `db:"id" json:"id"`
	UserID           int64           `db:"user_id" json:"-"`
	Name             string          `db:"name" json:"name"`
	EntityType       string          `db:"entity_type" json:"entity_type"`
	Filters          json.RawMessage `db:"filters" json:"filters"`
	AttributeFilters json.RawMessage `db:"attribute_filters" json:"attribute_filters"`
}
