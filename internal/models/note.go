package models

import "time"

// NoteVisibility controls who can read a note on a contact.
type NoteVisibility string

const (
	NoteVisibilityPublic  NoteVisibility = "PUBLIC"
	NoteVisibilityPrivate NoteVisibility = "PRIVATE"
)

// Note is a collaborative annotation on a contact.
type Note struct {
	ID         string         `db:"id" json:"id"`
	ContactID  string         `db:"contact_id" json:"contact_id"`
	AuthorID   string         `db:"author_id" json:"author_id"`
	Body       string         `db:"body" json:"body"`
	Visibility NoteVisibility `db:"visibility" json:"visibility"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Role is the authorization level of a team member.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// CanEdit reports whether the role may create or mutate inbox data.
func (r Role) CanEdit() bool {
	return r == RoleEditor || r == RoleAdmin
}

// User is a team member, supplied by the auth layer as an opaque
// current-user-with-role value.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
