package services

import (
	"testing"

	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/types"
)

func TestRecordViewAccumulates(t *testing.T) {
	conn := newTestDB(t)
	analyticsRepo := repos.NewAnalyticsRepo(conn, logger.NewNop())
	svc := NewEngagementService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		analyticsRepo,
		repos.NewSavedResourceRepo(conn, logger.NewNop()),
		repos.NewTriedResourceRepo(conn, logger.NewNop()),
		repos.NewUserRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	viewer := seedUser(t, conn, types.UserRoleStaff)

	for i := 0; i < 3; i++ {
		if err := svc.RecordView(ctxForUser(viewer), resource.ID); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}

	row, err := svc.GetAnalytics(ctxForUser(viewer), resource.ID)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if row.ViewCount != 3 {
		t.Fatalf("got=%d view_count want=3", row.ViewCount)
	}
	if row.LastViewed == nil {
		t.Fatalf("got=nil last_viewed want timestamp")
	}
}

func TestToggleSaveFlipsStateAndCounter(t *testing.T) {
	conn := newTestDB(t)
	svc := NewEngagementService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()),
		repos.NewSavedResourceRepo(conn, logger.NewNop()),
		repos.NewTriedResourceRepo(conn, logger.NewNop()),
		repos.NewUserRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	viewer := seedUser(t, conn, types.UserRoleStaff)
	ctx := ctxForUser(viewer)

	saved, err := svc.ToggleSave(ctx, resource.ID)
	if err != nil {
		t.Fatalf("ToggleSave failed: %v", err)
	}
	if !saved {
		t.Fatalf("got=false want first toggle to save")
	}
	if isSaved, _ := svc.IsSaved(ctx, resource.ID); !isSaved {
		t.Fatalf("got=false IsSaved want=true")
	}
	row, err := svc.GetAnalytics(ctx, resource.ID)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if row.SaveCount != 1 {
		t.Fatalf("got=%d save_count want=1", row.SaveCount)
	}

	saved, err = svc.ToggleSave(ctx, resource.ID)
	if err != nil {
		t.Fatalf("ToggleSave failed: %v", err)
	}
	if saved {
		t.Fatalf("got=true want second toggle to unsave")
	}
	row, err = svc.GetAnalytics(ctx, resource.ID)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if row.SaveCount != 0 {
		t.Fatalf("got=%d save_count want=0", row.SaveCount)
	}
}

func TestRecordTriedDeduplicatesAssociation(t *testing.T) {
	conn := newTestDB(t)
	triedRepo := repos.NewTriedResourceRepo(conn, logger.NewNop())
	svc := NewEngagementService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()),
		repos.NewSavedResourceRepo(conn, logger.NewNop()),
		triedRepo,
		repos.NewUserRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	viewer := seedUser(t, conn, types.UserRoleStaff)
	ctx := ctxForUser(viewer)

	for i := 0; i < 2; i++ {
		if err := svc.RecordTried(ctx, resource.ID); err != nil {
			t.Fatalf("RecordTried failed: %v", err)
		}
	}

	row, err := svc.GetAnalytics(ctx, resource.ID)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if row.TriedCount != 2 {
		t.Fatalf("got=%d tried_count want=2", row.TriedCount)
	}

	users, err := svc.ListUsersTriedIt(ctx, resource.ID)
	if err != nil {
		t.Fatalf("ListUsersTriedIt failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got=%d tried users want=1", len(users))
	}
	if users[0].UserID != viewer.ID || users[0].FullName != viewer.FullName {
		t.Fatalf("got=%+v want viewer entry", users[0])
	}
}

func TestGetAnalyticsReturnsZeroRowWhenUntouched(t *testing.T) {
	conn := newTestDB(t)
	svc := NewEngagementService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()),
		repos.NewSavedResourceRepo(conn, logger.NewNop()),
		repos.NewTriedResourceRepo(conn, logger.NewNop()),
		repos.NewUserRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})

	row, err := svc.GetAnalytics(ctxForUser(owner), resource.ID)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if row.ViewCount != 0 || row.SaveCount != 0 || row.TriedCount != 0 {
		t.Fatalf("got=%+v want all-zero counters", row)
	}
}

func TestListSavedResourcesSkipsHidden(t *testing.T) {
	conn := newTestDB(t)
	svc := NewEngagementService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()),
		repos.NewSavedResourceRepo(conn, logger.NewNop()),
		repos.NewTriedResourceRepo(conn, logger.NewNop()),
		repos.NewUserRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	viewer := seedUser(t, conn, types.UserRoleStaff)
	ctx := ctxForUser(viewer)

	visible := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	moderated := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	for _, r := range []*types.Resource{visible, moderated} {
		if _, err := svc.ToggleSave(ctx, r.ID); err != nil {
			t.Fatalf("ToggleSave failed: %v", err)
		}
	}
	if err := conn.Model(&types.Resource{}).
		Where("id = ?", moderated.ID).
		Update("is_hidden", true).Error; err != nil {
		t.Fatalf("failed to hide resource: %v", err)
	}

	saved, err := svc.ListSavedResources(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListSavedResources failed: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != visible.ID {
		t.Fatalf("got=%d saved want only the visible resource", len(saved))
	}
}
