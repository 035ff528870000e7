package setting

import "context"

// Repository defines tenant-scoped data access for settings.
type Repository interface {
	Create(context context.Context, setting *Setting) error
	List(context context.Context, userID string) ([]*Setting, error)
	FindByID(context context.Context, userID, id string) (*Setting, error)
	Update(context context.Context, setting *Setting) error
	// Delete removes the setting; observations referencing it are nullified
	// at the schema level.
	Delete(context context.Context, userID, id string) error
}
