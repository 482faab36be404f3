package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Collection references resources and prompts by id lists. The referenced
// ids are not foreign-key enforced: entries may point at records that no
// longer exist and readers must tolerate that.
type Collection struct {
	ID              uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string                         `gorm:"not null;column:name" json:"name"`
	Description     string                         `gorm:"column:description" json:"description"`
	OwnerID         uuid.UUID                      `gorm:"type:uuid;not null;index;column:owner_id" json:"owner_id"`
	Owner           *User                          `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	ResourceIDs     datatypes.JSONSlice[uuid.UUID] `gorm:"column:resource_ids" json:"resource_ids"`
	PromptIDs       datatypes.JSONSlice[uuid.UUID] `gorm:"column:prompt_ids" json:"prompt_ids"`
	SubscriberCount int64                          `gorm:"not null;default:0;column:subscriber_count" json:"subscriber_count"`
	CreatedAt       time.Time                      `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time                      `gorm:"not null" json:"updated_at"`
}

func (Collection) TableName() string {
	return "collection"
}
