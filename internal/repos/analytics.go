package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

// Counter names accepted by Increment/DecrementClamped. Interpolated into
// SQL, so anything outside this set is rejected.
const (
	CounterView    = "view_count"
	CounterSave    = "save_count"
	CounterTried   = "tried_count"
	CounterFork    = "fork_count"
	CounterComment = "comment_count"
	CounterHelpful = "helpful_count"
)

var validCounters = map[string]struct{}{
	CounterView:    {},
	CounterSave:    {},
	CounterTried:   {},
	CounterFork:    {},
	CounterComment: {},
	CounterHelpful: {},
}

// PlatformTotals aggregates engagement across every analytics row.
type PlatformTotals struct {
	TotalViews    int64 `json:"total_views"`
	TotalSaves    int64 `json:"total_saves"`
	TotalTried    int64 `json:"total_tried"`
	TotalForks    int64 `json:"total_forks"`
	TotalComments int64 `json:"total_comments"`
}

// DisciplineStats is one by-discipline aggregation row.
type DisciplineStats struct {
	Discipline string `json:"discipline"`
	Count      int64  `json:"count"`
	TotalViews int64  `json:"total_views"`
	TotalSaves int64  `json:"total_saves"`
}

type AnalyticsRepo interface {
	EnsureExists(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error
	GetByResourceID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.ResourceAnalytics, error)
	RecordView(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, at time.Time) error
	Increment(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, counter string) error
	DecrementClamped(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, counter string) error
	PlatformTotals(ctx context.Context, tx *gorm.DB) (*PlatformTotals, error)
	TopByViews(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ResourceAnalytics, error)
	StatsByDiscipline(ctx context.Context, tx *gorm.DB) ([]DisciplineStats, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	repoLog := baseLog.With("repo", "AnalyticsRepo")
	return &analyticsRepo{db: db, log: repoLog}
}

func (ar *analyticsRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ar.db
}

// EnsureExists lazily creates the counters row. The unique index on
// resource_id plus ON CONFLICT DO NOTHING keeps concurrent first-access
// from creating duplicates.
func (ar *analyticsRepo) EnsureExists(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error {
	row := &types.ResourceAnalytics{
		ID:         uuid.New(),
		ResourceID: resourceID,
	}
	return ar.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (ar *analyticsRepo) GetByResourceID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.ResourceAnalytics, error) {
	var row types.ResourceAnalytics
	err := ar.conn(tx).WithContext(ctx).
		Where("resource_id = ?", resourceID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RecordView bumps view_count and stamps last_viewed in one atomic UPDATE.
func (ar *analyticsRepo) RecordView(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, at time.Time) error {
	return ar.conn(tx).WithContext(ctx).
		Model(&types.ResourceAnalytics{}).
		Where("resource_id = ?", resourceID).
		Updates(map[string]interface{}{
			"view_count":  gorm.Expr("view_count + 1"),
			"last_viewed": at,
			"updated_at":  at,
		}).Error
}

// Increment is an atomic column increment, never read-modify-write.
func (ar *analyticsRepo) Increment(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, counter string) error {
	if _, ok := validCounters[counter]; !ok {
		return fmt.Errorf("unknown analytics counter %q", counter)
	}
	return ar.conn(tx).WithContext(ctx).
		Model(&types.ResourceAnalytics{}).
		Where("resource_id = ?", resourceID).
		Updates(map[string]interface{}{
			counter:      gorm.Expr(counter + " + 1"),
			"updated_at": time.Now().UTC(),
		}).Error
}

// DecrementClamped decrements atomically but never below zero.
func (ar *analyticsRepo) DecrementClamped(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, counter string) error {
	if _, ok := validCounters[counter]; !ok {
		return fmt.Errorf("unknown analytics counter %q", counter)
	}
	return ar.conn(tx).WithContext(ctx).
		Model(&types.ResourceAnalytics{}).
		Where("resource_id = ?", resourceID).
		Updates(map[string]interface{}{
			counter:      gorm.Expr("CASE WHEN " + counter + " > 0 THEN " + counter + " - 1 ELSE 0 END"),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (ar *analyticsRepo) PlatformTotals(ctx context.Context, tx *gorm.DB) (*PlatformTotals, error) {
	var totals PlatformTotals
	err := ar.conn(tx).WithContext(ctx).
		Model(&types.ResourceAnalytics{}).
		Select(`COALESCE(SUM(view_count), 0) AS total_views,
			COALESCE(SUM(save_count), 0) AS total_saves,
			COALESCE(SUM(tried_count), 0) AS total_tried,
			COALESCE(SUM(fork_count), 0) AS total_forks,
			COALESCE(SUM(comment_count), 0) AS total_comments`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (ar *analyticsRepo) TopByViews(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ResourceAnalytics, error) {
	var rows []*types.ResourceAnalytics
	err := ar.conn(tx).WithContext(ctx).
		Order("view_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (ar *analyticsRepo) StatsByDiscipline(ctx context.Context, tx *gorm.DB) ([]DisciplineStats, error) {
	var rows []DisciplineStats
	err := ar.conn(tx).WithContext(ctx).
		Model(&types.Resource{}).
		Select(`resource.discipline AS discipline,
			COUNT(*) AS count,
			COALESCE(SUM(resource_analytics.view_count), 0) AS total_views,
			COALESCE(SUM(resource_analytics.save_count), 0) AS total_saves`).
		Joins("LEFT JOIN resource_analytics ON resource_analytics.resource_id = resource.id").
		Where("resource.discipline <> ''").
		Group("resource.discipline").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
