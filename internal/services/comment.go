package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

type CreateCommentInput struct {
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
}

type CommentService interface {
	CreateComment(ctx context.Context, resourceID uuid.UUID, input CreateCommentInput) (*types.Comment, error)
	ListComments(ctx context.Context, resourceID uuid.UUID) ([]*types.Comment, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (*types.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
	MarkHelpful(ctx context.Context, commentID uuid.UUID) (*types.Comment, error)
}

type commentService struct {
	db            *gorm.DB
	log           *logger.Logger
	commentRepo   repos.CommentRepo
	resourceRepo  repos.ResourceRepo
	analyticsRepo repos.AnalyticsRepo
}

func NewCommentService(
	db *gorm.DB,
	log *logger.Logger,
	commentRepo repos.CommentRepo,
	resourceRepo repos.ResourceRepo,
	analyticsRepo repos.AnalyticsRepo,
) CommentService {
	serviceLog := log.With("service", "CommentService")
	return &commentService{
		db:            db,
		log:           serviceLog,
		commentRepo:   commentRepo,
		resourceRepo:  resourceRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (cs *commentService) visibleResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error) {
	resource, err := cs.resourceRepo.GetByID(ctx, tx, resourceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource.IsHidden {
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || (!rd.IsAdmin() && rd.UserID != resource.UserID) {
			return nil, fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
		}
	}
	return resource, nil
}

func (cs *commentService) CreateComment(ctx context.Context, resourceID uuid.UUID, input CreateCommentInput) (*types.Comment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperr.ErrValidation)
	}

	comment := &types.Comment{
		ResourceID:      resourceID,
		ParentCommentID: input.ParentCommentID,
		UserID:          rd.UserID,
		Content:         content,
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.visibleResource(ctx, tx, resourceID); err != nil {
			return err
		}
		if input.ParentCommentID != nil {
			parent, pErr := cs.commentRepo.GetByID(ctx, tx, *input.ParentCommentID)
			if pErr != nil {
				if pErr == gorm.ErrRecordNotFound {
					return fmt.Errorf("parent comment not found: %w", apperr.ErrNotFound)
				}
				return fmt.Errorf("failed to load parent comment: %w", pErr)
			}
			if parent.ResourceID != resourceID {
				return fmt.Errorf("parent comment belongs to another resource: %w", apperr.ErrValidation)
			}
		}
		comment.ID = uuid.New()
		if cErr := cs.commentRepo.Create(ctx, tx, comment); cErr != nil {
			return fmt.Errorf("failed to create comment: %w", cErr)
		}
		if aErr := cs.analyticsRepo.EnsureExists(ctx, tx, resourceID); aErr != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", aErr)
		}
		if iErr := cs.analyticsRepo.Increment(ctx, tx, resourceID, repos.CounterComment); iErr != nil {
			return fmt.Errorf("failed to increment comment count: %w", iErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return comment, nil
}

func (cs *commentService) ListComments(ctx context.Context, resourceID uuid.UUID) ([]*types.Comment, error) {
	if _, err := cs.visibleResource(ctx, nil, resourceID); err != nil {
		return nil, err
	}
	comments, err := cs.commentRepo.ListByResource(ctx, nil, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (cs *commentService) UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (*types.Comment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperr.ErrValidation)
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("comment not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment.UserID != rd.UserID && !rd.IsAdmin() {
		return nil, fmt.Errorf("only the author can update a comment: %w", apperr.ErrForbidden)
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.commentRepo.UpdateContent(ctx, tx, commentID, content)
	}); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return cs.commentRepo.GetByID(ctx, nil, commentID)
}

func (cs *commentService) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("comment not found: %w", apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment.UserID != rd.UserID && !rd.IsAdmin() {
		return fmt.Errorf("only the author can delete a comment: %w", apperr.ErrForbidden)
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := cs.commentRepo.Delete(ctx, tx, commentID); dErr != nil {
			return fmt.Errorf("failed to delete comment: %w", dErr)
		}
		if aErr := cs.analyticsRepo.EnsureExists(ctx, tx, comment.ResourceID); aErr != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", aErr)
		}
		if dErr := cs.analyticsRepo.DecrementClamped(ctx, tx, comment.ResourceID, repos.CounterComment); dErr != nil {
			return fmt.Errorf("failed to decrement comment count: %w", dErr)
		}
		return nil
	})
}

// MarkHelpful bumps both the per-comment counter and the resource aggregate.
func (cs *commentService) MarkHelpful(ctx context.Context, commentID uuid.UUID) (*types.Comment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("comment not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if iErr := cs.commentRepo.IncrementHelpful(ctx, tx, commentID); iErr != nil {
			return fmt.Errorf("failed to increment comment helpful count: %w", iErr)
		}
		if aErr := cs.analyticsRepo.EnsureExists(ctx, tx, comment.ResourceID); aErr != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", aErr)
		}
		if iErr := cs.analyticsRepo.Increment(ctx, tx, comment.ResourceID, repos.CounterHelpful); iErr != nil {
			return fmt.Errorf("failed to increment resource helpful count: %w", iErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return cs.commentRepo.GetByID(ctx, nil, commentID)
}
