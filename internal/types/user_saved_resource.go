package types

import (
	"time"

	"github.com/google/uuid"
)

// UserSavedResource is the per-user saved association behind the save
// toggle. The aggregate save_count lives on ResourceAnalytics.
type UserSavedResource struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_resource;column:user_id" json:"user_id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_resource;column:resource_id" json:"resource_id"`
	SavedAt    time.Time `gorm:"not null;column:saved_at" json:"saved_at"`
}

func (UserSavedResource) TableName() string {
	return "user_saved_resource"
}
