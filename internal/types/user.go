package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password          string         `gorm:"not null;column:password" json:"-"`
	FullName          string         `gorm:"not null;column:full_name" json:"full_name"`
	Role              UserRole       `gorm:"not null;default:staff;column:role" json:"role"`
	Department        string         `gorm:"column:department" json:"department"`
	Title             string         `gorm:"column:title" json:"title"`
	IsActive          bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	IsApproved        bool           `gorm:"not null;default:false;column:is_approved" json:"is_approved"`
	IsVerified        bool           `gorm:"not null;default:false;column:is_verified" json:"is_verified"`
	NotificationPrefs datatypes.JSON `gorm:"column:notification_prefs;type:jsonb" json:"notification_prefs,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
