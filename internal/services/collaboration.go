package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/normalization"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

// similarCandidateWindow bounds how many recent resources the similarity
// scorer considers.
const similarCandidateWindow = 500

const defaultSimilarLimit = 10

// CollaborationOptions describes how a viewer can reach a resource author.
type CollaborationOptions struct {
	ResourceID          uuid.UUID                 `json:"resource_id"`
	CollaborationStatus types.CollaborationStatus `json:"collaboration_status,omitempty"`
	OpenToCollaborate   []string                  `json:"open_to_collaborate"`
	ContactChannels     []string                  `json:"contact_channels"`
}

// SimilarResource pairs a candidate with its overlap score.
type SimilarResource struct {
	Resource *types.Resource `json:"resource"`
	Score    int             `json:"score"`
}

type CollaborationService interface {
	GetOptions(ctx context.Context, resourceID uuid.UUID) (*CollaborationOptions, error)
	FindSimilar(ctx context.Context, discipline string, tools []string, limit int) ([]SimilarResource, error)
	RequestCollaboration(ctx context.Context, resourceID uuid.UUID, message string) (*types.CollaborationRequest, error)
}

type collaborationService struct {
	db                *gorm.DB
	log               *logger.Logger
	resourceRepo      repos.ResourceRepo
	requestRepo       repos.CollaborationRequestRepo
	internalMessaging bool
}

func NewCollaborationService(
	db *gorm.DB,
	log *logger.Logger,
	resourceRepo repos.ResourceRepo,
	requestRepo repos.CollaborationRequestRepo,
	internalMessaging bool,
) CollaborationService {
	serviceLog := log.With("service", "CollaborationService")
	return &collaborationService{
		db:                db,
		log:               serviceLog,
		resourceRepo:      resourceRepo,
		requestRepo:       requestRepo,
		internalMessaging: internalMessaging,
	}
}

func (cs *collaborationService) visibleResource(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error) {
	resource, err := cs.resourceRepo.GetByID(ctx, nil, resourceID)
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

func (cs *collaborationService) GetOptions(ctx context.Context, resourceID uuid.UUID) (*CollaborationOptions, error) {
	resource, err := cs.visibleResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	channels := []string{"email"}
	if cs.internalMessaging {
		channels = append(channels, "internal_messaging")
	}
	openTo := []string(resource.OpenToCollaborate)
	if openTo == nil {
		openTo = []string{}
	}
	return &CollaborationOptions{
		ResourceID:          resource.ID,
		CollaborationStatus: resource.CollaborationStatus,
		OpenToCollaborate:   openTo,
		ContactChannels:     channels,
	}, nil
}

// FindSimilar scores recent visible resources by tool overlap with a +2
// bonus for a matching discipline. Zero-score candidates are dropped and
// ties go to the newer resource.
func (cs *collaborationService) FindSimilar(ctx context.Context, discipline string, tools []string, limit int) ([]SimilarResource, error) {
	discipline = strings.TrimSpace(discipline)
	if discipline == "" && len(tools) == 0 {
		return nil, fmt.Errorf("discipline or tools are required: %w", apperr.ErrValidation)
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultSimilarLimit
	}

	candidates, err := cs.resourceRepo.ListVisibleNewest(ctx, nil, similarCandidateWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	wanted := make(map[string]struct{}, len(tools))
	for _, tool := range tools {
		tool = normalization.Tag(tool)
		if tool != "" {
			wanted[tool] = struct{}{}
		}
	}

	scored := make([]SimilarResource, 0, len(candidates))
	for _, candidate := range candidates {
		score := 0
		for _, tool := range candidate.ToolsUsed {
			if _, ok := wanted[normalization.Tag(tool)]; ok {
				score++
			}
		}
		if discipline != "" && strings.EqualFold(candidate.Discipline, discipline) {
			score += 2
		}
		if score > 0 {
			scored = append(scored, SimilarResource{Resource: candidate, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Resource.CreatedAt.After(scored[j].Resource.CreatedAt)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (cs *collaborationService) RequestCollaboration(ctx context.Context, resourceID uuid.UUID, message string) (*types.CollaborationRequest, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	resource, err := cs.visibleResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.UserID == rd.UserID {
		return nil, fmt.Errorf("cannot request collaboration on your own resource: %w", apperr.ErrValidation)
	}

	request := &types.CollaborationRequest{
		ResourceID: resourceID,
		FromUserID: rd.UserID,
		Message:    strings.TrimSpace(message),
		Status:     "sent",
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request.ID = uuid.New()
		return cs.requestRepo.Create(ctx, tx, request)
	}); err != nil {
		return nil, fmt.Errorf("failed to create collaboration request: %w", err)
	}
	cs.log.Info("Collaboration request sent", "resource_id", resourceID, "from_user_id", rd.UserID)
	return request, nil
}
