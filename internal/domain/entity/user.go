// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User represents a single registered account. It is the only entity the
// system persists; the whole collection is rewritten on every mutation.
type User struct {
	ID           int64     `json:"id"`         // Numeric identifier, assigned on creation and never reused.
	Username     string    `json:"username"`   // Unique login name, immutable after creation.
	Email        string    `json:"email"`      // Contact email, free-form, no uniqueness enforced.
	PasswordHash string    `json:"-"`          // bcrypt digest. Never serialized into responses.
	CreatedAt    time.Time `json:"created_at"` // Timestamp of when this account was created.
	UpdatedAt    time.Time `json:"updated_at"` // Timestamp of the last modification to this account.
}
