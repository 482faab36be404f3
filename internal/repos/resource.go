package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

// Weeks-equivalent normalization for the min_time_saved filter: a month is
// treated as 4 weeks and a semester as 12 weeks.
const timeSavedWeeklyExpr = `(CASE time_saved_frequency
		WHEN 'per_month' THEN time_saved_value / 4.0
		WHEN 'per_semester' THEN time_saved_value / 12.0
		ELSE time_saved_value
	END)`

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPopular   SortOrder = "popular"
	SortMostTried SortOrder = "most_tried"
)

// ResourceFilter carries the optional listing predicates. Filters combine
// with AND across dimensions; the tools list matches any.
type ResourceFilter struct {
	Type                types.ResourceType
	Discipline          string
	Tools               []string
	CollaborationStatus types.CollaborationStatus
	MinTimeSaved        *float64
	Search              string
	SortBy              SortOrder
	Skip                int
	Limit               int
	ViewerID            uuid.UUID
	ViewerIsAdmin       bool
}

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resource *types.Resource) error
	GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error)
	Exists(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filter ResourceFilter) ([]*types.Resource, error)
	ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.Resource, error)
	CountVisibleSiblings(ctx context.Context, tx *gorm.DB, parentID, excludeID uuid.UUID) (int64, error)
	ListVisibleNewest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Resource, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Resource, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (rr *resourceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resource *types.Resource) error {
	return rr.conn(tx).WithContext(ctx).Create(resource).Error
}

func (rr *resourceRepo) GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error) {
	var resource types.Resource
	err := rr.conn(tx).WithContext(ctx).
		Where("id = ?", resourceID).
		First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (rr *resourceRepo) Exists(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (bool, error) {
	var count int64
	if err := rr.conn(tx).WithContext(ctx).
		Model(&types.Resource{}).
		Where("id = ?", resourceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List translates the filter into one relational query. Popularity sorts
// left-join the analytics table so resources without a counters row rank as
// zero.
func (rr *resourceRepo) List(ctx context.Context, tx *gorm.DB, filter ResourceFilter) ([]*types.Resource, error) {
	query := rr.conn(tx).WithContext(ctx).Model(&types.Resource{})

	if !filter.ViewerIsAdmin {
		if filter.ViewerID != uuid.Nil {
			query = query.Where("(is_hidden = ? OR resource.user_id = ?)", false, filter.ViewerID)
		} else {
			query = query.Where("is_hidden = ?", false)
		}
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Discipline != "" {
		query = query.Where("discipline = ?", filter.Discipline)
	}
	if filter.CollaborationStatus != "" {
		query = query.Where("collaboration_status = ?", filter.CollaborationStatus)
	}
	if len(filter.Tools) > 0 {
		conds := make([]string, 0, len(filter.Tools))
		args := make([]interface{}, 0, len(filter.Tools))
		for _, tool := range filter.Tools {
			conds = append(conds, "CAST(tools_used AS TEXT) LIKE ?")
			args = append(args, `%"`+tool+`"%`)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if filter.MinTimeSaved != nil {
		query = query.Where("time_saved_value IS NOT NULL AND "+timeSavedWeeklyExpr+" >= ?", *filter.MinTimeSaved)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? OR LOWER(content_text) LIKE ? OR LOWER(quick_summary) LIKE ?)",
			term, term, term,
		)
	}

	switch filter.SortBy {
	case SortPopular:
		query = query.
			Select("resource.*").
			Joins("LEFT JOIN resource_analytics ON resource_analytics.resource_id = resource.id").
			Order("COALESCE(resource_analytics.view_count, 0) DESC").
			Order("resource.created_at DESC")
	case SortMostTried:
		query = query.
			Select("resource.*").
			Joins("LEFT JOIN resource_analytics ON resource_analytics.resource_id = resource.id").
			Order("COALESCE(resource_analytics.tried_count, 0) DESC").
			Order("resource.created_at DESC")
	default:
		query = query.Order("resource.created_at DESC")
	}

	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var results []*types.Resource
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resourceRepo) ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.Resource, error) {
	var results []*types.Resource
	err := rr.conn(tx).WithContext(ctx).
		Where("parent_id = ? AND is_hidden = ?", parentID, false).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resourceRepo) CountVisibleSiblings(ctx context.Context, tx *gorm.DB, parentID, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := rr.conn(tx).WithContext(ctx).
		Model(&types.Resource{}).
		Where("parent_id = ? AND id <> ? AND is_hidden = ?", parentID, excludeID, false).
		Count(&count).Error
	return count, err
}

// ListVisibleNewest returns the bounded candidate window the similarity
// scorer ranks in memory.
func (rr *resourceRepo) ListVisibleNewest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Resource, error) {
	var results []*types.Resource
	err := rr.conn(tx).WithContext(ctx).
		Where("is_hidden = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resourceRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Resource, error) {
	var results []*types.Resource
	if err := rr.conn(tx).WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resourceRepo) UpdateFields(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, fields map[string]interface{}) error {
	return rr.conn(tx).WithContext(ctx).
		Model(&types.Resource{}).
		Where("id = ?", resourceID).
		Updates(fields).Error
}

func (rr *resourceRepo) Delete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error {
	return rr.conn(tx).WithContext(ctx).
		Where("id = ?", resourceID).
		Delete(&types.Resource{}).Error
}
