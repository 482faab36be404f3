package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

// UpdateMeInput carries the profile fields a user may change. Nil pointers
// mean "leave unchanged".
type UpdateMeInput struct {
	FullName          *string         `json:"full_name,omitempty"`
	Department        *string         `json:"department,omitempty"`
	Title             *string         `json:"title,omitempty"`
	NotificationPrefs *datatypes.JSON `json:"notification_prefs,omitempty"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateMe(ctx context.Context, input UpdateMeInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateMe(ctx context.Context, input UpdateMeInput) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("no request data found in context: %w", apperr.ErrUnauthorized)
	}

	fields := map[string]interface{}{}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, fmt.Errorf("full_name cannot be empty: %w", apperr.ErrValidation)
		}
		fields["full_name"] = name
	}
	if input.Department != nil {
		fields["department"] = strings.TrimSpace(*input.Department)
	}
	if input.Title != nil {
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.NotificationPrefs != nil {
		fields["notification_prefs"] = *input.NotificationPrefs
	}

	if len(fields) > 0 {
		if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return us.userRepo.UpdateFields(ctx, tx, rd.UserID, fields)
		}); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
