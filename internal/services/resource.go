package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

const maxListLimit = 100

type CreateResourceInput struct {
	Type                types.ResourceType        `json:"type"`
	Title               string                    `json:"title"`
	ContentText         string                    `json:"content_text"`
	ParentID            *uuid.UUID                `json:"parent_id,omitempty"`
	Discipline          string                    `json:"discipline"`
	Department          string                    `json:"department"`
	ToolsUsed           []string                  `json:"tools_used"`
	CollaborationStatus types.CollaborationStatus `json:"collaboration_status,omitempty"`
	OpenToCollaborate   []string                  `json:"open_to_collaborate"`
	TimeSavedValue      *float64                  `json:"time_saved_value,omitempty"`
	TimeSavedFrequency  types.TimeSavedFrequency  `json:"time_saved_frequency,omitempty"`
	EvidenceOfSuccess   []string                  `json:"evidence_of_success"`
	IsFork              bool                      `json:"is_fork"`
	ForkedFromID        *uuid.UUID                `json:"forked_from_id,omitempty"`
	QuickSummary        string                    `json:"quick_summary"`
	WorkflowSteps       []string                  `json:"workflow_steps"`
	ExamplePrompt       string                    `json:"example_prompt"`
	EthicsNotes         string                    `json:"ethics_notes"`
	UserTags            []string                  `json:"user_tags"`
	IsAnonymous         bool                      `json:"is_anonymous"`
}

// UpdateResourceInput is a partial update: nil pointers leave the column
// untouched.
type UpdateResourceInput struct {
	Title               *string                    `json:"title,omitempty"`
	ContentText         *string                    `json:"content_text,omitempty"`
	Discipline          *string                    `json:"discipline,omitempty"`
	Department          *string                    `json:"department,omitempty"`
	ToolsUsed           *[]string                  `json:"tools_used,omitempty"`
	CollaborationStatus *types.CollaborationStatus `json:"collaboration_status,omitempty"`
	OpenToCollaborate   *[]string                  `json:"open_to_collaborate,omitempty"`
	TimeSavedValue      *float64                   `json:"time_saved_value,omitempty"`
	TimeSavedFrequency  *types.TimeSavedFrequency  `json:"time_saved_frequency,omitempty"`
	EvidenceOfSuccess   *[]string                  `json:"evidence_of_success,omitempty"`
	QuickSummary        *string                    `json:"quick_summary,omitempty"`
	WorkflowSteps       *[]string                  `json:"workflow_steps,omitempty"`
	ExamplePrompt       *string                    `json:"example_prompt,omitempty"`
	EthicsNotes         *string                    `json:"ethics_notes,omitempty"`
	UserTags            *[]string                  `json:"user_tags,omitempty"`
	IsAnonymous         *bool                      `json:"is_anonymous,omitempty"`
}

type ResourceService interface {
	CreateResource(ctx context.Context, input CreateResourceInput) (*types.Resource, error)
	GetResource(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error)
	ListResources(ctx context.Context, filter repos.ResourceFilter) ([]*types.Resource, error)
	ListSolutions(ctx context.Context, parentID uuid.UUID) ([]*types.Resource, error)
	UpdateResource(ctx context.Context, resourceID uuid.UUID, input UpdateResourceInput) (*types.Resource, error)
	DeleteResource(ctx context.Context, resourceID uuid.UUID) error
	ForkResource(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error)
	SetHidden(ctx context.Context, resourceID uuid.UUID, hidden bool) error
}

type resourceService struct {
	db            *gorm.DB
	log           *logger.Logger
	resourceRepo  repos.ResourceRepo
	analyticsRepo repos.AnalyticsRepo
}

func NewResourceService(
	db *gorm.DB,
	log *logger.Logger,
	resourceRepo repos.ResourceRepo,
	analyticsRepo repos.AnalyticsRepo,
) ResourceService {
	serviceLog := log.With("service", "ResourceService")
	return &resourceService{
		db:            db,
		log:           serviceLog,
		resourceRepo:  resourceRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (rs *resourceService) CreateResource(ctx context.Context, input CreateResourceInput) (*types.Resource, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.ContentText)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content_text are required: %w", apperr.ErrValidation)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", input.Type, apperr.ErrValidation)
	}
	if input.CollaborationStatus != "" && !input.CollaborationStatus.Valid() {
		return nil, fmt.Errorf("unknown collaboration_status %q: %w", input.CollaborationStatus, apperr.ErrValidation)
	}
	if input.TimeSavedValue != nil {
		if *input.TimeSavedValue < 0 {
			return nil, fmt.Errorf("time_saved_value cannot be negative: %w", apperr.ErrValidation)
		}
		// A bare value means hours per week.
		if input.TimeSavedFrequency == "" {
			input.TimeSavedFrequency = types.TimeSavedPerWeek
		}
		if !input.TimeSavedFrequency.Valid() {
			return nil, fmt.Errorf("unknown time_saved_frequency %q: %w", input.TimeSavedFrequency, apperr.ErrValidation)
		}
	}
	if input.IsFork && input.ForkedFromID == nil {
		return nil, fmt.Errorf("forked_from_id is required when is_fork is set: %w", apperr.ErrValidation)
	}
	if !input.IsFork && input.ForkedFromID != nil {
		return nil, fmt.Errorf("forked_from_id requires is_fork: %w", apperr.ErrValidation)
	}

	resource := &types.Resource{
		UserID:              rd.UserID,
		Type:                input.Type,
		Status:              types.ResourceStatusOpen,
		Title:               title,
		ContentText:         content,
		ParentID:            input.ParentID,
		Discipline:          strings.TrimSpace(input.Discipline),
		Department:          strings.TrimSpace(input.Department),
		ToolsUsed:           datatypes.NewJSONSlice(input.ToolsUsed),
		CollaborationStatus: input.CollaborationStatus,
		OpenToCollaborate:   datatypes.NewJSONSlice(input.OpenToCollaborate),
		TimeSavedValue:      input.TimeSavedValue,
		TimeSavedFrequency:  input.TimeSavedFrequency,
		EvidenceOfSuccess:   datatypes.NewJSONSlice(input.EvidenceOfSuccess),
		IsFork:              input.IsFork,
		ForkedFromID:        input.ForkedFromID,
		VersionNumber:       1,
		QuickSummary:        strings.TrimSpace(input.QuickSummary),
		WorkflowSteps:       datatypes.NewJSONSlice(input.WorkflowSteps),
		ExamplePrompt:       input.ExamplePrompt,
		EthicsNotes:         input.EthicsNotes,
		SystemTags:          datatypes.NewJSONSlice(GenerateSystemTags(title, content)),
		UserTags:            datatypes.NewJSONSlice(input.UserTags),
		IsAnonymous:         input.IsAnonymous,
	}

	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.ForkedFromID != nil {
			exists, exErr := rs.resourceRepo.Exists(ctx, tx, *input.ForkedFromID)
			if exErr != nil {
				return fmt.Errorf("failed to check fork origin: %w", exErr)
			}
			if !exists {
				return fmt.Errorf("fork origin resource not found: %w", apperr.ErrNotFound)
			}
		}
		var parent *types.Resource
		if input.ParentID != nil {
			p, pErr := rs.resourceRepo.GetByID(ctx, tx, *input.ParentID)
			if pErr != nil {
				if pErr == gorm.ErrRecordNotFound {
					return fmt.Errorf("parent resource not found: %w", apperr.ErrNotFound)
				}
				return fmt.Errorf("failed to load parent resource: %w", pErr)
			}
			parent = p
		}

		resource.ID = uuid.New()
		if cErr := rs.resourceRepo.Create(ctx, tx, resource); cErr != nil {
			return fmt.Errorf("failed to create resource: %w", cErr)
		}

		// First solution on an open request marks the request solved.
		if parent != nil && parent.Type == types.ResourceTypeRequest && parent.Status == types.ResourceStatusOpen {
			if uErr := rs.resourceRepo.UpdateFields(ctx, tx, parent.ID, map[string]interface{}{
				"status":     types.ResourceStatusSolved,
				"updated_at": time.Now().UTC(),
			}); uErr != nil {
				return fmt.Errorf("failed to mark parent solved: %w", uErr)
			}
		}

		if input.ForkedFromID != nil {
			if aErr := rs.analyticsRepo.EnsureExists(ctx, tx, *input.ForkedFromID); aErr != nil {
				return fmt.Errorf("failed to ensure analytics row: %w", aErr)
			}
			if iErr := rs.analyticsRepo.Increment(ctx, tx, *input.ForkedFromID, repos.CounterFork); iErr != nil {
				return fmt.Errorf("failed to increment fork count: %w", iErr)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	rs.log.Info("Created resource", "resource_id", resource.ID, "type", resource.Type)
	return resource, nil
}

func (rs *resourceService) GetResource(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error) {
	resource, err := rs.resourceRepo.GetByID(ctx, nil, resourceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource.IsHidden && !rs.canSeeHidden(ctx, resource) {
		// Hidden rows are indistinguishable from missing ones for everyone
		// but the owner and admins.
		return nil, fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
	}
	return resource, nil
}

func (rs *resourceService) canSeeHidden(ctx context.Context, resource *types.Resource) bool {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return false
	}
	return rd.IsAdmin() || rd.UserID == resource.UserID
}

func (rs *resourceService) ListResources(ctx context.Context, filter repos.ResourceFilter) ([]*types.Resource, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown resource type %q: %w", filter.Type, apperr.ErrValidation)
	}
	if filter.CollaborationStatus != "" && !filter.CollaborationStatus.Valid() {
		return nil, fmt.Errorf("unknown collaboration_status %q: %w", filter.CollaborationStatus, apperr.ErrValidation)
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		filter.ViewerID = rd.UserID
		filter.ViewerIsAdmin = rd.IsAdmin()
	}
	results, err := rs.resourceRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return results, nil
}

func (rs *resourceService) ListSolutions(ctx context.Context, parentID uuid.UUID) ([]*types.Resource, error) {
	if _, err := rs.GetResource(ctx, parentID); err != nil {
		return nil, err
	}
	solutions, err := rs.resourceRepo.ListByParent(ctx, nil, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	return solutions, nil
}

func (rs *resourceService) UpdateResource(ctx context.Context, resourceID uuid.UUID, input UpdateResourceInput) (*types.Resource, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	resource, err := rs.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.UserID != rd.UserID && !rd.IsAdmin() {
		return nil, fmt.Errorf("only the owner can update a resource: %w", apperr.ErrForbidden)
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", apperr.ErrValidation)
		}
		fields["title"] = title
	}
	if input.ContentText != nil {
		content := strings.TrimSpace(*input.ContentText)
		if content == "" {
			return nil, fmt.Errorf("content_text cannot be empty: %w", apperr.ErrValidation)
		}
		fields["content_text"] = content
	}
	if input.Discipline != nil {
		fields["discipline"] = strings.TrimSpace(*input.Discipline)
	}
	if input.Department != nil {
		fields["department"] = strings.TrimSpace(*input.Department)
	}
	if input.ToolsUsed != nil {
		fields["tools_used"] = datatypes.NewJSONSlice(*input.ToolsUsed)
	}
	if input.CollaborationStatus != nil {
		if *input.CollaborationStatus != "" && !input.CollaborationStatus.Valid() {
			return nil, fmt.Errorf("unknown collaboration_status %q: %w", *input.CollaborationStatus, apperr.ErrValidation)
		}
		fields["collaboration_status"] = *input.CollaborationStatus
	}
	if input.OpenToCollaborate != nil {
		fields["open_to_collaborate"] = datatypes.NewJSONSlice(*input.OpenToCollaborate)
	}
	if input.TimeSavedValue != nil {
		if *input.TimeSavedValue < 0 {
			return nil, fmt.Errorf("time_saved_value cannot be negative: %w", apperr.ErrValidation)
		}
		fields["time_saved_value"] = *input.TimeSavedValue
	}
	if input.TimeSavedFrequency != nil {
		if !input.TimeSavedFrequency.Valid() {
			return nil, fmt.Errorf("unknown time_saved_frequency %q: %w", *input.TimeSavedFrequency, apperr.ErrValidation)
		}
		fields["time_saved_frequency"] = *input.TimeSavedFrequency
	}
	if input.EvidenceOfSuccess != nil {
		fields["evidence_of_success"] = datatypes.NewJSONSlice(*input.EvidenceOfSuccess)
	}
	if input.QuickSummary != nil {
		fields["quick_summary"] = strings.TrimSpace(*input.QuickSummary)
	}
	if input.WorkflowSteps != nil {
		fields["workflow_steps"] = datatypes.NewJSONSlice(*input.WorkflowSteps)
	}
	if input.ExamplePrompt != nil {
		fields["example_prompt"] = *input.ExamplePrompt
	}
	if input.EthicsNotes != nil {
		fields["ethics_notes"] = *input.EthicsNotes
	}
	if input.UserTags != nil {
		fields["user_tags"] = datatypes.NewJSONSlice(*input.UserTags)
	}
	if input.IsAnonymous != nil {
		fields["is_anonymous"] = *input.IsAnonymous
	}

	if len(fields) > 0 {
		// Title or content edits refresh the derived tags.
		if input.Title != nil || input.ContentText != nil {
			title := resource.Title
			content := resource.ContentText
			if input.Title != nil {
				title = strings.TrimSpace(*input.Title)
			}
			if input.ContentText != nil {
				content = strings.TrimSpace(*input.ContentText)
			}
			fields["system_tags"] = datatypes.NewJSONSlice(GenerateSystemTags(title, content))
		}
		fields["updated_at"] = time.Now().UTC()
		if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return rs.resourceRepo.UpdateFields(ctx, tx, resourceID, fields)
		}); err != nil {
			return nil, fmt.Errorf("failed to update resource: %w", err)
		}
	}
	return rs.GetResource(ctx, resourceID)
}

func (rs *resourceService) DeleteResource(ctx context.Context, resourceID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	resource, err := rs.GetResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if resource.UserID != rd.UserID && !rd.IsAdmin() {
		return fmt.Errorf("only the owner can delete a resource: %w", apperr.ErrForbidden)
	}

	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := rs.resourceRepo.Delete(ctx, tx, resourceID); dErr != nil {
			return fmt.Errorf("failed to delete resource: %w", dErr)
		}
		// Removing the last visible solution reopens the request.
		if resource.ParentID != nil {
			parent, pErr := rs.resourceRepo.GetByID(ctx, tx, *resource.ParentID)
			if pErr != nil {
				if pErr == gorm.ErrRecordNotFound {
					return nil
				}
				return fmt.Errorf("failed to load parent resource: %w", pErr)
			}
			if parent.Type == types.ResourceTypeRequest && parent.Status == types.ResourceStatusSolved {
				remaining, cErr := rs.resourceRepo.CountVisibleSiblings(ctx, tx, parent.ID, resourceID)
				if cErr != nil {
					return fmt.Errorf("failed to count remaining solutions: %w", cErr)
				}
				if remaining == 0 {
					if uErr := rs.resourceRepo.UpdateFields(ctx, tx, parent.ID, map[string]interface{}{
						"status":     types.ResourceStatusOpen,
						"updated_at": time.Now().UTC(),
					}); uErr != nil {
						return fmt.Errorf("failed to reopen parent: %w", uErr)
					}
				}
			}
		}
		return nil
	})
}

// ForkResource copies a visible resource for the caller, preserving lineage
// and bumping the origin's fork counter.
func (rs *resourceService) ForkResource(ctx context.Context, resourceID uuid.UUID) (*types.Resource, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	origin, err := rs.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	fork := &types.Resource{
		UserID:              rd.UserID,
		Type:                origin.Type,
		Status:              types.ResourceStatusOpen,
		Title:               origin.Title,
		ContentText:         origin.ContentText,
		Discipline:          origin.Discipline,
		Department:          origin.Department,
		ToolsUsed:           origin.ToolsUsed,
		CollaborationStatus: origin.CollaborationStatus,
		OpenToCollaborate:   origin.OpenToCollaborate,
		TimeSavedValue:      origin.TimeSavedValue,
		TimeSavedFrequency:  origin.TimeSavedFrequency,
		EvidenceOfSuccess:   origin.EvidenceOfSuccess,
		IsFork:              true,
		ForkedFromID:        &origin.ID,
		VersionNumber:       1,
		QuickSummary:        origin.QuickSummary,
		WorkflowSteps:       origin.WorkflowSteps,
		ExamplePrompt:       origin.ExamplePrompt,
		EthicsNotes:         origin.EthicsNotes,
		SystemTags:          origin.SystemTags,
		UserTags:            origin.UserTags,
	}
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fork.ID = uuid.New()
		if cErr := rs.resourceRepo.Create(ctx, tx, fork); cErr != nil {
			return fmt.Errorf("failed to create fork: %w", cErr)
		}
		if aErr := rs.analyticsRepo.EnsureExists(ctx, tx, origin.ID); aErr != nil {
			return fmt.Errorf("failed to ensure analytics row: %w", aErr)
		}
		if iErr := rs.analyticsRepo.Increment(ctx, tx, origin.ID, repos.CounterFork); iErr != nil {
			return fmt.Errorf("failed to increment fork count: %w", iErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	rs.log.Info("Forked resource", "origin_id", origin.ID, "fork_id", fork.ID)
	return fork, nil
}

func (rs *resourceService) SetHidden(ctx context.Context, resourceID uuid.UUID, hidden bool) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	if !rd.IsAdmin() {
		return fmt.Errorf("moderation requires the admin role: %w", apperr.ErrForbidden)
	}
	exists, err := rs.resourceRepo.Exists(ctx, nil, resourceID)
	if err != nil {
		return fmt.Errorf("failed to check resource: %w", err)
	}
	if !exists {
		return fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
	}
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return rs.resourceRepo.UpdateFields(ctx, tx, resourceID, map[string]interface{}{
			"is_hidden":  hidden,
			"updated_at": time.Now().UTC(),
		})
	})
}
