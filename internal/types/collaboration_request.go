package types

import (
	"time"

	"github.com/google/uuid"
)

type CollaborationRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index;column:resource_id" json:"resource_id"`
	Resource   *Resource `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"-"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;index;column:from_user_id" json:"from_user_id"`
	FromUser   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FromUserID;references:ID" json:"-"`
	Message    string    `gorm:"column:message" json:"message"`
	Status     string    `gorm:"not null;default:sent;column:status" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (CollaborationRequest) TableName() string {
	return "collaboration_request"
}
