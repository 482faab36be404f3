package types

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"resource_id"`
	Resource        *Resource  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"-"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index;column:parent_comment_id" json:"parent_comment_id,omitempty"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Content         string     `gorm:"not null;column:content" json:"content"`
	HelpfulCount    int64      `gorm:"not null;default:0;column:helpful_count" json:"helpful_count"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comment"
}
