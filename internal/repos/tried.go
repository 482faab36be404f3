package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type TriedResourceRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, tried *types.UserTriedResource) error
	ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.UserTriedResource, error)
}

type triedResourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTriedResourceRepo(db *gorm.DB, baseLog *logger.Logger) TriedResourceRepo {
	repoLog := baseLog.With("repo", "TriedResourceRepo")
	return &triedResourceRepo{db: db, log: repoLog}
}

func (tr *triedResourceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

// Upsert keeps the association unique per user+resource; repeat tries keep
// the original tried_at.
func (tr *triedResourceRepo) Upsert(ctx context.Context, tx *gorm.DB, tried *types.UserTriedResource) error {
	return tr.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(tried).Error
}

func (tr *triedResourceRepo) ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.UserTriedResource, error) {
	var tried []*types.UserTriedResource
	err := tr.conn(tx).WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("tried_at DESC").
		Find(&tried).Error
	if err != nil {
		return nil, err
	}
	return tried, nil
}
