package models

// Attribute is a registered dynamic field name. The registry doubles as the
// whitelist for filterable and exportable attribute columns.
type Attribute struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// AttributeValue is one (person, attribute) cell of the extension table.
type AttributeValue struct {
	PersonID    int64  `db:"person_id" json:"person_id"`
	AttributeID int64  `db:"attribute_id" json:"attribute_id"`
	Value       string `db:"value" json:"value"`
}
