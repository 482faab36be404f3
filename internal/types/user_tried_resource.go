package types

import (
	"time"

	"github.com/google/uuid"
)

// UserTriedResource records which users marked a resource as tried, for
// peer discovery. Unlike the tried_count aggregate it is deduplicated per
// user.
type UserTriedResource struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tried_user_resource;column:user_id" json:"user_id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tried_user_resource;column:resource_id" json:"resource_id"`
	TriedAt    time.Time `gorm:"not null;column:tried_at" json:"tried_at"`
}

func (UserTriedResource) TableName() string {
	return "user_tried_resource"
}
