package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

const topResourcesLimit = 5

// TopResource is one entry in the platform top-five listing.
type TopResource struct {
	Resource  *types.Resource `json:"resource"`
	ViewCount int64           `json:"view_count"`
}

// PlatformReport is the admin analytics payload.
type PlatformReport struct {
	Totals       repos.PlatformTotals `json:"totals"`
	AvgViews     float64              `json:"avg_views_per_resource"`
	TopResources []TopResource        `json:"top_resources"`
}

type AdminAnalyticsService interface {
	PlatformReport(ctx context.Context) (*PlatformReport, error)
	ByDiscipline(ctx context.Context) ([]repos.DisciplineStats, error)
}

type adminAnalyticsService struct {
	db            *gorm.DB
	log           *logger.Logger
	analyticsRepo repos.AnalyticsRepo
	resourceRepo  repos.ResourceRepo
}

func NewAdminAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	analyticsRepo repos.AnalyticsRepo,
	resourceRepo repos.ResourceRepo,
) AdminAnalyticsService {
	serviceLog := log.With("service", "AdminAnalyticsService")
	return &adminAnalyticsService{
		db:            db,
		log:           serviceLog,
		analyticsRepo: analyticsRepo,
		resourceRepo:  resourceRepo,
	}
}

func requireAdmin(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	if !rd.IsAdmin() {
		return fmt.Errorf("admin role required: %w", apperr.ErrForbidden)
	}
	return nil
}

func (as *adminAnalyticsService) PlatformReport(ctx context.Context) (*PlatformReport, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	totals, err := as.analyticsRepo.PlatformTotals(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate platform totals: %w", err)
	}

	resources, err := as.resourceRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count resources: %w", err)
	}
	avgViews := 0.0
	if len(resources) > 0 {
		avgViews = float64(totals.TotalViews) / float64(len(resources))
	}

	topRows, err := as.analyticsRepo.TopByViews(ctx, nil, topResourcesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top resources: %w", err)
	}
	top := make([]TopResource, 0, len(topRows))
	for _, row := range topRows {
		resource, rErr := as.resourceRepo.GetByID(ctx, nil, row.ResourceID)
		if rErr != nil {
			if rErr == gorm.ErrRecordNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to load top resource: %w", rErr)
		}
		top = append(top, TopResource{Resource: resource, ViewCount: row.ViewCount})
	}

	return &PlatformReport{
		Totals:       *totals,
		AvgViews:     avgViews,
		TopResources: top,
	}, nil
}

func (as *adminAnalyticsService) ByDiscipline(ctx context.Context) ([]repos.DisciplineStats, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	stats, err := as.analyticsRepo.StatsByDiscipline(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by discipline: %w", err)
	}
	return stats, nil
}
