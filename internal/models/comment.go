package models

import "time"

// Comment is a free-text note a system user leaves on a person profile.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PersonID  int64     `db:"person_id" json:"person_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentDetail joins the comment with its author for profile display.
type CommentDetail struct {
	ID         int64     `db:"id" json:"id"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	AuthorName string    `db:"author_name" json:"author_name"`
	AuthorRole string    `db:"author_role" json:"author_role"`
}
