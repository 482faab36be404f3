package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

// TriedUser is one entry in the users-tried-it listing.
type TriedUser struct {
	UserID     uuid.UUID `json:"user_id"`
	FullName   string    `json:"full_name"`
	Department string    `json:"department"`
	TriedAt    time.Time `json:"tried_at"`
}

type EngagementService interface {
	RecordView(ctx context.Context, resourceID uuid.UUID) error
	RecordTried(ctx context.Context, resourceID uuid.UUID) error
	ToggleSave(ctx context.Context, resourceID uuid.UUID) (bool, error)
	GetAnalytics(ctx context.Context, resourceID uuid.UUID) (*types.ResourceAnalytics, error)
	IsSaved(ctx context.Context, resourceID uuid.UUID) (bool, error)
	ListSavedResources(ctx context.Context, skip, limit int) ([]*types.Resource, error)
	ListUsersTriedIt(ctx context.Context, resourceID uuid.UUID) ([]TriedUser, error)
}

type engagementService struct {
	db            *gorm.DB
	log           *logger.Logger
	resourceRepo  repos.ResourceRepo
	analyticsRepo repos.AnalyticsRepo
	savedRepo     repos.SavedResourceRepo
	triedRepo     repos.TriedResourceRepo
	userRepo      repos.UserRepo
}

func NewEngagementService(
	db *gorm.DB,
	log *logger.Logger,
	resourceRepo repos.ResourceRepo,
	analyticsRepo repos.AnalyticsRepo,
	savedRepo repos.SavedResourceRepo,
	triedRepo repos.TriedResourceRepo,
	userRepo repos.UserRepo,
) EngagementService {
	serviceLog := log.With("service", "EngagementService")
	return &engagementService{
		db:            db,
		log:           serviceLog,
		resourceRepo:  resourceRepo,
		analyticsRepo: analyticsRepo,
		savedRepo:     savedRepo,
		triedRepo:     triedRepo,
		userRepo:      userRepo,
	}
}

// visibleResource loads the resource and hides moderated rows from everyone
// but the owner and admins.
func (es *engagementService) visibleResource(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error) {
	resource, err := es.resourceRepo.GetByID(ctx, tx, resourceID)
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

func (es *engagementService) RecordView(ctx context.Context, resourceID uuid.UUID) error {
	return es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := es.visibleResource(ctx, tx, resourceID); err != nil {
			return err
		}
		if err := es.analyticsRepo.EnsureExists(ctx, tx, resourceID); err != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", err)
		}
		if err := es.analyticsRepo.RecordView(ctx, tx, resourceID, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record view: %w", err)
		}
		return nil
	})
}

// RecordTried bumps tried_count on every call; the per-user association is
// upserted once so the peer list stays deduplicated.
func (es *engagementService) RecordTried(ctx context.Context, resourceID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	return es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := es.visibleResource(ctx, tx, resourceID); err != nil {
			return err
		}
		if err := es.analyticsRepo.EnsureExists(ctx, tx, resourceID); err != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", err)
		}
		if err := es.analyticsRepo.Increment(ctx, tx, resourceID, repos.CounterTried); err != nil {
			return fmt.Errorf("failed to increment tried count: %w", err)
		}
		tried := &types.UserTriedResource{
			ID:         uuid.New(),
			UserID:     rd.UserID,
			ResourceID: resourceID,
			TriedAt:    time.Now().UTC(),
		}
		if err := es.triedRepo.Upsert(ctx, tx, tried); err != nil {
			return fmt.Errorf("failed to upsert tried association: %w", err)
		}
		return nil
	})
}

// ToggleSave flips the caller's saved state and returns the new state.
func (es *engagementService) ToggleSave(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return false, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	var saved bool
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := es.visibleResource(ctx, tx, resourceID); err != nil {
			return err
		}
		if err := es.analyticsRepo.EnsureExists(ctx, tx, resourceID); err != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", err)
		}
		_, getErr := es.savedRepo.Get(ctx, tx, rd.UserID, resourceID)
		switch getErr {
		case nil:
			if dErr := es.savedRepo.Delete(ctx, tx, rd.UserID, resourceID); dErr != nil {
				return fmt.Errorf("failed to delete saved association: %w", dErr)
			}
			if dErr := es.analyticsRepo.DecrementClamped(ctx, tx, resourceID, repos.CounterSave); dErr != nil {
				return fmt.Errorf("failed to decrement save count: %w", dErr)
			}
			saved = false
		case gorm.ErrRecordNotFound:
			row := &types.UserSavedResource{
				ID:         uuid.New(),
				UserID:     rd.UserID,
				ResourceID: resourceID,
				SavedAt:    time.Now().UTC(),
			}
			if cErr := es.savedRepo.Create(ctx, tx, row); cErr != nil {
				return fmt.Errorf("failed to create saved association: %w", cErr)
			}
			if iErr := es.analyticsRepo.Increment(ctx, tx, resourceID, repos.CounterSave); iErr != nil {
				return fmt.Errorf("failed to increment save count: %w", iErr)
			}
			saved = true
		default:
			return fmt.Errorf("failed to check saved association: %w", getErr)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

// GetAnalytics returns the counters row, or an all-zero view when no
// interaction has created one yet.
func (es *engagementService) GetAnalytics(ctx context.Context, resourceID uuid.UUID) (*types.ResourceAnalytics, error) {
	if _, err := es.visibleResource(ctx, nil, resourceID); err != nil {
		return nil, err
	}
	row, err := es.analyticsRepo.GetByResourceID(ctx, nil, resourceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &types.ResourceAnalytics{ResourceID: resourceID}, nil
		}
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return row, nil
}

func (es *engagementService) IsSaved(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return false, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	if _, err := es.visibleResource(ctx, nil, resourceID); err != nil {
		return false, err
	}
	_, err := es.savedRepo.Get(ctx, nil, rd.UserID, resourceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check saved association: %w", err)
	}
	return true, nil
}

func (es *engagementService) ListSavedResources(ctx context.Context, skip, limit int) ([]*types.Resource, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	associations, err := es.savedRepo.ListByUser(ctx, nil, rd.UserID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved associations: %w", err)
	}
	resources := make([]*types.Resource, 0, len(associations))
	for _, assoc := range associations {
		resource, gErr := es.resourceRepo.GetByID(ctx, nil, assoc.ResourceID)
		if gErr != nil {
			if gErr == gorm.ErrRecordNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to load saved resource: %w", gErr)
		}
		if resource.IsHidden && !rd.IsAdmin() && resource.UserID != rd.UserID {
			continue
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

func (es *engagementService) ListUsersTriedIt(ctx context.Context, resourceID uuid.UUID) ([]TriedUser, error) {
	if _, err := es.visibleResource(ctx, nil, resourceID); err != nil {
		return nil, err
	}
	associations, err := es.triedRepo.ListByResource(ctx, nil, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tried associations: %w", err)
	}
	out := make([]TriedUser, 0, len(associations))
	for _, assoc := range associations {
		user, uErr := es.userRepo.GetByID(ctx, nil, assoc.UserID)
		if uErr != nil {
			if uErr == gorm.ErrRecordNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to load user: %w", uErr)
		}
		out = append(out, TriedUser{
			UserID:     user.ID,
			FullName:   user.FullName,
			Department: user.Department,
			TriedAt:    assoc.TriedAt,
		})
	}
	return out, nil
}
