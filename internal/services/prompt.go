package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

type CreatePromptInput struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	PromptText   string             `json:"prompt_text"`
	Variables    []string           `json:"variables"`
	SharingLevel types.SharingLevel `json:"sharing_level"`
}

type UpdatePromptInput struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	PromptText   *string             `json:"prompt_text,omitempty"`
	Variables    *[]string           `json:"variables,omitempty"`
	SharingLevel *types.SharingLevel `json:"sharing_level,omitempty"`
}

// PromptUsage is the owner-only usage report.
type PromptUsage struct {
	PromptID   uuid.UUID `json:"prompt_id"`
	UsageCount int64     `json:"usage_count"`
	ForkCount  int64     `json:"fork_count"`
}

type PromptService interface {
	CreatePrompt(ctx context.Context, input CreatePromptInput) (*types.Prompt, error)
	GetPrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error)
	ListPrompts(ctx context.Context, filter repos.PromptFilter) ([]*types.Prompt, error)
	UpdatePrompt(ctx context.Context, promptID uuid.UUID, input UpdatePromptInput) (*types.Prompt, error)
	DeletePrompt(ctx context.Context, promptID uuid.UUID) error
	ForkPrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error)
	UsePrompt(ctx context.Context, promptID uuid.UUID) error
	GetUsage(ctx context.Context, promptID uuid.UUID) (*PromptUsage, error)
}

type promptService struct {
	db         *gorm.DB
	log        *logger.Logger
	promptRepo repos.PromptRepo
}

func NewPromptService(db *gorm.DB, log *logger.Logger, promptRepo repos.PromptRepo) PromptService {
	serviceLog := log.With("service", "PromptService")
	return &promptService{db: db, log: serviceLog, promptRepo: promptRepo}
}

func (ps *promptService) CreatePrompt(ctx context.Context, input CreatePromptInput) (*types.Prompt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.PromptText)
	if title == "" || text == "" {
		return nil, fmt.Errorf("title and prompt_text are required: %w", apperr.ErrValidation)
	}
	level := input.SharingLevel
	if level == "" {
		level = types.SharingPrivate
	}
	if !level.Valid() {
		return nil, fmt.Errorf("unknown sharing_level %q: %w", level, apperr.ErrValidation)
	}

	prompt := &types.Prompt{
		UserID:        rd.UserID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		PromptText:    text,
		Variables:     datatypes.NewJSONSlice(input.Variables),
		SharingLevel:  level,
		VersionNumber: 1,
	}
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prompt.ID = uuid.New()
		return ps.promptRepo.Create(ctx, tx, prompt)
	}); err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}
	return prompt, nil
}

// readablePrompt enforces sharing-level read visibility: private prompts are
// owner-only, everything else is readable by any authenticated user.
func (ps *promptService) readablePrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error) {
	prompt, err := ps.promptRepo.GetByID(ctx, nil, promptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("prompt not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load prompt: %w", err)
	}
	if prompt.SharingLevel == types.SharingPrivate {
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || (rd.UserID != prompt.UserID && !rd.IsAdmin()) {
			return nil, fmt.Errorf("prompt not found: %w", apperr.ErrNotFound)
		}
	}
	return prompt, nil
}

func (ps *promptService) GetPrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error) {
	return ps.readablePrompt(ctx, promptID)
}

func (ps *promptService) ListPrompts(ctx context.Context, filter repos.PromptFilter) ([]*types.Prompt, error) {
	if filter.SharingLevel != "" && !filter.SharingLevel.Valid() {
		return nil, fmt.Errorf("unknown sharing_level %q: %w", filter.SharingLevel, apperr.ErrValidation)
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		filter.ViewerID = rd.UserID
		filter.ViewerIsAdmin = rd.IsAdmin()
	}
	prompts, err := ps.promptRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return prompts, nil
}

func (ps *promptService) ownedPrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	prompt, err := ps.readablePrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if prompt.UserID != rd.UserID && !rd.IsAdmin() {
		return nil, fmt.Errorf("only the owner can modify a prompt: %w", apperr.ErrForbidden)
	}
	return prompt, nil
}

func (ps *promptService) UpdatePrompt(ctx context.Context, promptID uuid.UUID, input UpdatePromptInput) (*types.Prompt, error) {
	if _, err := ps.ownedPrompt(ctx, promptID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", apperr.ErrValidation)
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.PromptText != nil {
		text := strings.TrimSpace(*input.PromptText)
		if text == "" {
			return nil, fmt.Errorf("prompt_text cannot be empty: %w", apperr.ErrValidation)
		}
		fields["prompt_text"] = text
	}
	if input.Variables != nil {
		fields["variables"] = datatypes.NewJSONSlice(*input.Variables)
	}
	if input.SharingLevel != nil {
		if !input.SharingLevel.Valid() {
			return nil, fmt.Errorf("unknown sharing_level %q: %w", *input.SharingLevel, apperr.ErrValidation)
		}
		fields["sharing_level"] = *input.SharingLevel
	}

	if len(fields) > 0 {
		if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return ps.promptRepo.UpdateFields(ctx, tx, promptID, fields)
		}); err != nil {
			return nil, fmt.Errorf("failed to update prompt: %w", err)
		}
	}
	return ps.promptRepo.GetByID(ctx, nil, promptID)
}

func (ps *promptService) DeletePrompt(ctx context.Context, promptID uuid.UUID) error {
	if _, err := ps.ownedPrompt(ctx, promptID); err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ps.promptRepo.Delete(ctx, tx, promptID)
	})
}

// ForkPrompt copies a readable prompt as a private draft for the caller and
// bumps the origin's fork counter.
func (ps *promptService) ForkPrompt(ctx context.Context, promptID uuid.UUID) (*types.Prompt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	origin, err := ps.readablePrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	fork := &types.Prompt{
		UserID:        rd.UserID,
		Title:         origin.Title,
		Description:   origin.Description,
		PromptText:    origin.PromptText,
		Variables:     origin.Variables,
		SharingLevel:  types.SharingPrivate,
		IsFork:        true,
		ForkedFromID:  &origin.ID,
		VersionNumber: 1,
	}
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fork.ID = uuid.New()
		if cErr := ps.promptRepo.Create(ctx, tx, fork); cErr != nil {
			return fmt.Errorf("failed to create fork: %w", cErr)
		}
		if iErr := ps.promptRepo.IncrementForks(ctx, tx, origin.ID); iErr != nil {
			return fmt.Errorf("failed to increment fork count: %w", iErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return fork, nil
}

func (ps *promptService) UsePrompt(ctx context.Context, promptID uuid.UUID) error {
	if _, err := ps.readablePrompt(ctx, promptID); err != nil {
		return err
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ps.promptRepo.IncrementUsage(ctx, tx, promptID)
	})
}

func (ps *promptService) GetUsage(ctx context.Context, promptID uuid.UUID) (*PromptUsage, error) {
	prompt, err := ps.ownedPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}
	return &PromptUsage{
		PromptID:   prompt.ID,
		UsageCount: prompt.UsageCount,
		ForkCount:  prompt.ForkCount,
	}, nil
}
