package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error)
	ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.Comment, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, content string) error
	IncrementHelpful(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (cr *commentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	return cr.conn(tx).WithContext(ctx).Create(comment).Error
}

func (cr *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
	var comment types.Comment
	err := cr.conn(tx).WithContext(ctx).
		Where("id = ?", commentID).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByResource returns the flat thread ordered oldest first; clients
// assemble the parent/child tree from parent_comment_id.
func (cr *commentRepo) ListByResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) ([]*types.Comment, error) {
	var comments []*types.Comment
	err := cr.conn(tx).WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (cr *commentRepo) UpdateContent(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, content string) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (cr *commentRepo) IncrementHelpful(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", commentID).
		Update("helpful_count", gorm.Expr("helpful_count + 1")).Error
}

func (cr *commentRepo) Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Where("id = ?", commentID).
		Delete(&types.Comment{}).Error
}
