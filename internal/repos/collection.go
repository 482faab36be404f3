package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type CollectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, collection *types.Collection) error
	GetByID(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) (*types.Collection, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Collection, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, fields map[string]interface{}) error
	IncrementSubscribers(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) error
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	repoLog := baseLog.With("repo", "CollectionRepo")
	return &collectionRepo{db: db, log: repoLog}
}

func (cr *collectionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *collectionRepo) Create(ctx context.Context, tx *gorm.DB, collection *types.Collection) error {
	return cr.conn(tx).WithContext(ctx).Create(collection).Error
}

func (cr *collectionRepo) GetByID(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) (*types.Collection, error) {
	var collection types.Collection
	err := cr.conn(tx).WithContext(ctx).
		Where("id = ?", collectionID).
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (cr *collectionRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*types.Collection, error) {
	query := cr.conn(tx).WithContext(ctx).Order("created_at DESC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var collections []*types.Collection
	if err := query.Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (cr *collectionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, fields map[string]interface{}) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Collection{}).
		Where("id = ?", collectionID).
		Updates(fields).Error
}

func (cr *collectionRepo) IncrementSubscribers(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Collection{}).
		Where("id = ?", collectionID).
		Update("subscriber_count", gorm.Expr("subscriber_count + 1")).Error
}

func (cr *collectionRepo) Delete(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Where("id = ?", collectionID).
		Delete(&types.Collection{}).Error
}
