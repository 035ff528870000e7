// Package setting implements the observation-context domain: named places or
// situations (classroom, home, playground) a user records observations in.
package setting

import "time"

// Setting is a named context owned by one user. Names are unique per user.
type Setting struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	FieldName        = "name"
	FieldDescription = "description"
)
