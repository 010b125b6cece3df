package models

import (
	"database/sql"
	"time"
)

// PersonStatus is the lifecycle state of a CRM person record.
type PersonStatus string

const (
	PersonStatusStudent   PersonStatus = "student"
	PersonStatusApplicant PersonStatus = "applicant"
	PersonStatusOther     PersonStatus = "other"
)

// Person is a human record in the CRM, independent of role.
type Person struct {
	ID             int64        `db:"id" json:"id"`
	FullName       string       `db:"full_name" json:"name"`
	Email          string       `db:"email" json:"email"`
	Phone          string       `db:"phone" json:"phone"`
	Status         PersonStatus `db:"status" json:"status"`
	MarketingOptIn bool         `db:"marketing_opt_in" json:"marketing_opt_in"`
}

// PersonListItem is one row of a person listing. Programs and Interests carry
// the aggregated program names for the row's view; whichever does not apply to
// the view is empty.
type PersonListItem struct {
	ID         int64             `db:"id" json:"id"`
	Name       string            `db:"name" json:"name"`
	Email      string            `db:"email" json:"email"`
	Phone      string            `db:"phone" json:"phone"`
	Status     string            `db:"status" json:"status"`
	Programs   string            `db:"programs" json:"programs"`
	Interests  string            `db:"interests" json:"interests"`
	EnrolledAt sql.NullTime      `db:"enrolled_at" json:"enrolled_at,omitempty"`
	Attributes map[string]string `db:"-" json:"attributes,omitempty"`
}

// ProgramRef names a program a person relates to.
type ProgramRef struct {
	Name    string `db:"name" json:"name"`
	Edition string `db:"edition" json:"edition,omitempty"`
}

// PersonDetail is the full profile view of one person.
type PersonDetail struct {
	Person
	EnrolledPrograms []ProgramRef      `json:"enrolled_programs"`
	InterestPrograms []ProgramRef      `json:"interest_programs"`
	Attributes       map[string]string `json:"attributes"`
}

// HistoryEntry is one immutable audit record for a person.
type HistoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	PersonID  int64     `db:"person_id" json:"person_id"`
	Action    string    `db:"action" json:"action"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// History action labels.
const (
	HistoryActionStudentCreated   = "student created"
	HistoryActionApplicantCreated = "applicant created"
	HistoryActionPersonUpdated    = "person updated"
	HistoryActionEnrolled         = "enrolled"
	HistoryActionUnenrolled       = "enrollment removed"
	HistoryActionUnsubscribed     = "unsubscribed"
	HistoryActionEmailSent        = "email sent"
)
