package types

import (
	"time"

	"github.com/google/uuid"
)

// ResourceAnalytics holds the aggregate engagement counters for one
// resource. At most one row exists per resource; the row is created lazily
// on the first tracked interaction and counters are only ever mutated with
// atomic column updates.
type ResourceAnalytics struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:resource_id" json:"resource_id"`
	Resource      *Resource  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"-"`
	ViewCount     int64      `gorm:"not null;default:0;column:view_count" json:"view_count"`
	UniqueViewers int64      `gorm:"not null;default:0;column:unique_viewers" json:"unique_viewers"`
	SaveCount     int64      `gorm:"not null;default:0;column:save_count" json:"save_count"`
	TriedCount    int64      `gorm:"not null;default:0;column:tried_count" json:"tried_count"`
	ForkCount     int64      `gorm:"not null;default:0;column:fork_count" json:"fork_count"`
	CommentCount  int64      `gorm:"not null;default:0;column:comment_count" json:"comment_count"`
	HelpfulCount  int64      `gorm:"not null;default:0;column:helpful_count" json:"helpful_count"`
	LastViewed    *time.Time `gorm:"column:last_viewed" json:"last_viewed,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (ResourceAnalytics) TableName() string {
	return "resource_analytics"
}
