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

type CreateCollectionInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ResourceIDs []uuid.UUID `json:"resource_ids"`
	PromptIDs   []uuid.UUID `json:"prompt_ids"`
}

type UpdateCollectionInput struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	ResourceIDs *[]uuid.UUID `json:"resource_ids,omitempty"`
	PromptIDs   *[]uuid.UUID `json:"prompt_ids,omitempty"`
}

type CollectionService interface {
	CreateCollection(ctx context.Context, input CreateCollectionInput) (*types.Collection, error)
	GetCollection(ctx context.Context, collectionID uuid.UUID) (*types.Collection, error)
	ListCollections(ctx context.Context, skip, limit int) ([]*types.Collection, error)
	UpdateCollection(ctx context.Context, collectionID uuid.UUID, input UpdateCollectionInput) (*types.Collection, error)
	DeleteCollection(ctx context.Context, collectionID uuid.UUID) error
	Subscribe(ctx context.Context, collectionID uuid.UUID) (*types.Collection, error)
	ListResourceIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error)
	ListPromptIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error)
}

type collectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo repos.CollectionRepo
}

func NewCollectionService(db *gorm.DB, log *logger.Logger, collectionRepo repos.CollectionRepo) CollectionService {
	serviceLog := log.With("service", "CollectionService")
	return &collectionService{db: db, log: serviceLog, collectionRepo: collectionRepo}
}

func (cs *collectionService) CreateCollection(ctx context.Context, input CreateCollectionInput) (*types.Collection, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrValidation)
	}

	collection := &types.Collection{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     rd.UserID,
		ResourceIDs: datatypes.NewJSONSlice(input.ResourceIDs),
		PromptIDs:   datatypes.NewJSONSlice(input.PromptIDs),
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collection.ID = uuid.New()
		return cs.collectionRepo.Create(ctx, tx, collection)
	}); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

func (cs *collectionService) GetCollection(ctx context.Context, collectionID uuid.UUID) (*types.Collection, error) {
	collection, err := cs.collectionRepo.GetByID(ctx, nil, collectionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("collection not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return collection, nil
}

func (cs *collectionService) ListCollections(ctx context.Context, skip, limit int) ([]*types.Collection, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if skip < 0 {
		skip = 0
	}
	collections, err := cs.collectionRepo.List(ctx, nil, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (cs *collectionService) ownedCollection(ctx context.Context, collectionID uuid.UUID) (*types.Collection, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	collection, err := cs.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerID != rd.UserID && !rd.IsAdmin() {
		return nil, fmt.Errorf("only the owner can modify a collection: %w", apperr.ErrForbidden)
	}
	return collection, nil
}

func (cs *collectionService) UpdateCollection(ctx context.Context, collectionID uuid.UUID, input UpdateCollectionInput) (*types.Collection, error) {
	if _, err := cs.ownedCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", apperr.ErrValidation)
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.ResourceIDs != nil {
		fields["resource_ids"] = datatypes.NewJSONSlice(*input.ResourceIDs)
	}
	if input.PromptIDs != nil {
		fields["prompt_ids"] = datatypes.NewJSONSlice(*input.PromptIDs)
	}

	if len(fields) > 0 {
		if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return cs.collectionRepo.UpdateFields(ctx, tx, collectionID, fields)
		}); err != nil {
			return nil, fmt.Errorf("failed to update collection: %w", err)
		}
	}
	return cs.GetCollection(ctx, collectionID)
}

func (cs *collectionService) DeleteCollection(ctx context.Context, collectionID uuid.UUID) error {
	if _, err := cs.ownedCollection(ctx, collectionID); err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.collectionRepo.Delete(ctx, tx, collectionID)
	})
}

func (cs *collectionService) Subscribe(ctx context.Context, collectionID uuid.UUID) (*types.Collection, error) {
	if _, err := cs.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.collectionRepo.IncrementSubscribers(ctx, tx, collectionID)
	}); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return cs.GetCollection(ctx, collectionID)
}

func (cs *collectionService) ListResourceIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error) {
	collection, err := cs.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return collection.ResourceIDs, nil
}

func (cs *collectionService) ListPromptIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error) {
	collection, err := cs.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return collection.PromptIDs, nil
}
