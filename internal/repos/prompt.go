package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type PromptFilter struct {
	SharingLevel  types.SharingLevel
	ViewerID      uuid.UUID
	ViewerIsAdmin bool
	Skip          int
	Limit         int
}

type PromptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) error
	GetByID(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) (*types.Prompt, error)
	List(ctx context.Context, tx *gorm.DB, filter PromptFilter) ([]*types.Prompt, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, promptID uuid.UUID, fields map[string]interface{}) error
	IncrementUsage(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error
	IncrementForks(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	repoLog := baseLog.With("repo", "PromptRepo")
	return &promptRepo{db: db, log: repoLog}
}

func (pr *promptRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *promptRepo) Create(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) error {
	return pr.conn(tx).WithContext(ctx).Create(prompt).Error
}

func (pr *promptRepo) GetByID(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) (*types.Prompt, error) {
	var prompt types.Prompt
	err := pr.conn(tx).WithContext(ctx).
		Where("id = ?", promptID).
		First(&prompt).Error
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (pr *promptRepo) List(ctx context.Context, tx *gorm.DB, filter PromptFilter) ([]*types.Prompt, error) {
	query := pr.conn(tx).WithContext(ctx).Model(&types.Prompt{})

	// Private prompts are only ever visible to their owner, regardless of
	// any sharing_level filter. Admins see everything.
	if !filter.ViewerIsAdmin {
		if filter.ViewerID != uuid.Nil {
			query = query.Where("sharing_level <> ? OR user_id = ?", types.SharingPrivate, filter.ViewerID)
		} else {
			query = query.Where("sharing_level <> ?", types.SharingPrivate)
		}
	}
	if filter.SharingLevel != "" {
		query = query.Where("sharing_level = ?", filter.SharingLevel)
	}

	query = query.Order("created_at DESC")
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var prompts []*types.Prompt
	if err := query.Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (pr *promptRepo) UpdateFields(ctx context.Context, tx *gorm.DB, promptID uuid.UUID, fields map[string]interface{}) error {
	return pr.conn(tx).WithContext(ctx).
		Model(&types.Prompt{}).
		Where("id = ?", promptID).
		Updates(fields).Error
}

func (pr *promptRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Model(&types.Prompt{}).
		Where("id = ?", promptID).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (pr *promptRepo) IncrementForks(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Model(&types.Prompt{}).
		Where("id = ?", promptID).
		Update("fork_count", gorm.Expr("fork_count + 1")).Error
}

func (pr *promptRepo) Delete(ctx context.Context, tx *gorm.DB, promptID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Where("id = ?", promptID).
		Delete(&types.Prompt{}).Error
}
