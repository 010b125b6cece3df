package models

// Signature is a globally shared named HTML email signature block. At most one
// active signature carries the default flag at a time.
type Signature struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	HTML      string `db:"html" json:"html"`
	IsDefault bool   `db:"is_default" json:"is_default"`
	Active    bool   `db:"active" json:"-"`
}
