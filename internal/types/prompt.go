package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SharingLevel string

const (
	SharingPrivate    SharingLevel = "private"
	SharingDepartment SharingLevel = "department"
	SharingSchool     SharingLevel = "school"
	SharingPublic     SharingLevel = "public"
)

func (l SharingLevel) Valid() bool {
	switch l {
	case SharingPrivate, SharingDepartment, SharingSchool, SharingPublic:
		return true
	}
	return false
}

type Prompt struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title        string                      `gorm:"not null;column:title" json:"title"`
	Description  string                      `gorm:"column:description" json:"description"`
	PromptText   string                      `gorm:"not null;column:prompt_text" json:"prompt_text"`
	Variables    datatypes.JSONSlice[string] `gorm:"column:variables" json:"variables"`
	SharingLevel SharingLevel                `gorm:"not null;default:private;index;column:sharing_level" json:"sharing_level"`
	IsFork       bool                        `gorm:"not null;default:false;column:is_fork" json:"is_fork"`
	ForkedFromID *uuid.UUID                  `gorm:"type:uuid;column:forked_from_id" json:"forked_from_id,omitempty"`
	VersionNumber int                        `gorm:"not null;default:1;column:version_number" json:"version_number"`
	UsageCount   int64                       `gorm:"not null;default:0;column:usage_count" json:"usage_count"`
	ForkCount    int64                       `gorm:"not null;default:0;column:fork_count" json:"fork_count"`
	CreatedAt    time.Time                   `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Prompt) TableName() string {
	return "prompt"
}
