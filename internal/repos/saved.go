package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type SavedResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, saved *types.UserSavedResource) error
	Get(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) (*types.UserSavedResource, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*types.UserSavedResource, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) error
}

type savedResourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedResourceRepo(db *gorm.DB, baseLog *logger.Logger) SavedResourceRepo {
	repoLog := baseLog.With("repo", "SavedResourceRepo")
	return &savedResourceRepo{db: db, log: repoLog}
}

func (sr *savedResourceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *savedResourceRepo) Create(ctx context.Context, tx *gorm.DB, saved *types.UserSavedResource) error {
	return sr.conn(tx).WithContext(ctx).Create(saved).Error
}

func (sr *savedResourceRepo) Get(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) (*types.UserSavedResource, error) {
	var saved types.UserSavedResource
	err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (sr *savedResourceRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*types.UserSavedResource, error) {
	query := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var saved []*types.UserSavedResource
	if err := query.Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

func (sr *savedResourceRepo) Delete(ctx context.Context, tx *gorm.DB, userID, resourceID uuid.UUID) error {
	return sr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		Delete(&types.UserSavedResource{}).Error
}
