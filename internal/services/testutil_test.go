package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/unistaff/aihub-backend/internal/db"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, role types.UserRole) *types.User {
	t.Helper()
	user := &types.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@example.edu", uuid.New().String()[:8]),
		Password: "x",
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedResource(t *testing.T, conn *gorm.DB, resource *types.Resource) *types.Resource {
	t.Helper()
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	if resource.Type == "" {
		resource.Type = types.ResourceTypeUseCase
	}
	if resource.Status == "" {
		resource.Status = types.ResourceStatusOpen
	}
	if resource.Title == "" {
		resource.Title = "Untitled"
	}
	if resource.ContentText == "" {
		resource.ContentText = "content"
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	if err := conn.Create(resource).Error; err != nil {
		t.Fatalf("failed to seed resource: %v", err)
	}
	return resource
}

func ctxForUser(user *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: user.ID,
		Role:   string(user.Role),
	})
}
