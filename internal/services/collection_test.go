package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/types"
)

func TestCollectionLifecycle(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollectionService(conn, logger.NewNop(), repos.NewCollectionRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	stranger := seedUser(t, conn, types.UserRoleStaff)
	ctx := ctxForUser(owner)

	resourceID := uuid.New()
	collection, err := svc.CreateCollection(ctx, CreateCollectionInput{
		Name:        "Onboarding kit",
		Description: "Starter resources for new staff",
		ResourceIDs: []uuid.UUID{resourceID},
	})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if collection.OwnerID != owner.ID {
		t.Fatalf("got=%v owner want=%v", collection.OwnerID, owner.ID)
	}

	ids, err := svc.ListResourceIDs(ctx, collection.ID)
	if err != nil {
		t.Fatalf("ListResourceIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != resourceID {
		t.Fatalf("got=%v want the seeded resource id", ids)
	}

	newName := "Revised kit"
	if _, err := svc.UpdateCollection(ctxForUser(stranger), collection.ID, UpdateCollectionInput{Name: &newName}); !apperr.IsForbidden(err) {
		t.Fatalf("got=%v want forbidden for stranger update", err)
	}
	updated, err := svc.UpdateCollection(ctx, collection.ID, UpdateCollectionInput{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateCollection failed: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("got=%q name want=%q", updated.Name, newName)
	}

	if err := svc.DeleteCollection(ctx, collection.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	if _, err := svc.GetCollection(ctx, collection.ID); !apperr.IsNotFound(err) {
		t.Fatalf("got=%v want not found after delete", err)
	}
}

func TestSubscribeIncrementsCounter(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollectionService(conn, logger.NewNop(), repos.NewCollectionRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	reader := seedUser(t, conn, types.UserRoleStaff)

	collection, err := svc.CreateCollection(ctxForUser(owner), CreateCollectionInput{Name: "Prompt library"})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Subscribe(ctxForUser(reader), collection.ID); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}
	loaded, err := svc.GetCollection(ctxForUser(reader), collection.ID)
	if err != nil {
		t.Fatalf("GetCollection failed: %v", err)
	}
	if loaded.SubscriberCount != 2 {
		t.Fatalf("got=%d subscriber_count want=2", loaded.SubscriberCount)
	}
}
