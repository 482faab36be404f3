package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type CollaborationRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, request *types.CollaborationRequest) error
	ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.CollaborationRequest, error)
}

type collaborationRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollaborationRequestRepo(db *gorm.DB, baseLog *logger.Logger) CollaborationRequestRepo {
	repoLog := baseLog.With("repo", "CollaborationRequestRepo")
	return &collaborationRequestRepo{db: db, log: repoLog}
}

func (cr *collaborationRequestRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *collaborationRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *types.CollaborationRequest) error {
	return cr.conn(tx).WithContext(ctx).Create(request).Error
}

func (cr *collaborationRequestRepo) ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.CollaborationRequest, error) {
	var requests []*types.CollaborationRequest
	err := cr.conn(tx).WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
