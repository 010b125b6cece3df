package models

// Program is an academic offering addressable by (name, edition).
type Program struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Edition string `db:"edition" json:"edition"`
}

// EnrollmentResult reports a bulk enrollment outcome, distinguishing persons
// newly enrolled from those who already had the enrollment.
type EnrollmentResult struct {
	Enrolled        []int64 `json:"enrolled"`
	AlreadyEnrolled []int64 `json:"already_enrolled"`
}
