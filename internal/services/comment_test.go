package services

import (
	"testing"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/types"
)

func TestCreateCommentRejectsCrossResourceParent(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCommentService(conn, logger.NewNop(),
		repos.NewCommentRepo(conn, logger.NewNop()),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	first := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	second := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	ctx := ctxForUser(owner)

	root, err := svc.CreateComment(ctx, first.ID, CreateCommentInput{Content: "nice workflow"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	_, err = svc.CreateComment(ctx, second.ID, CreateCommentInput{
		Content:         "reply",
		ParentCommentID: &root.ID,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("got=%v want validation error for cross-resource parent", err)
	}

	reply, err := svc.CreateComment(ctx, first.ID, CreateCommentInput{
		Content:         "reply",
		ParentCommentID: &root.ID,
	})
	if err != nil {
		t.Fatalf("CreateComment reply failed: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != root.ID {
		t.Fatalf("got=%+v want reply threaded under root", reply)
	}
}

func TestCommentCountTracksCreateAndDelete(t *testing.T) {
	conn := newTestDB(t)
	analyticsRepo := repos.NewAnalyticsRepo(conn, logger.NewNop())
	svc := NewCommentService(conn, logger.NewNop(),
		repos.NewCommentRepo(conn, logger.NewNop()),
		repos.NewResourceRepo(conn, logger.NewNop()),
		analyticsRepo)
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	ctx := ctxForUser(owner)

	comment, err := svc.CreateComment(ctx, resource.ID, CreateCommentInput{Content: "first"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	row, err := analyticsRepo.GetByResourceID(ctx, nil, resource.ID)
	if err != nil {
		t.Fatalf("GetByResourceID failed: %v", err)
	}
	if row.CommentCount != 1 {
		t.Fatalf("got=%d comment_count want=1", row.CommentCount)
	}

	if err := svc.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	row, err = analyticsRepo.GetByResourceID(ctx, nil, resource.ID)
	if err != nil {
		t.Fatalf("GetByResourceID failed: %v", err)
	}
	if row.CommentCount != 0 {
		t.Fatalf("got=%d comment_count want=0", row.CommentCount)
	}
}

func TestUpdateCommentRequiresAuthor(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCommentService(conn, logger.NewNop(),
		repos.NewCommentRepo(conn, logger.NewNop()),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	stranger := seedUser(t, conn, types.UserRoleStaff)
	admin := seedUser(t, conn, types.UserRoleAdmin)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})

	comment, err := svc.CreateComment(ctxForUser(owner), resource.ID, CreateCommentInput{Content: "original"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if _, err := svc.UpdateComment(ctxForUser(stranger), comment.ID, "edited"); !apperr.IsForbidden(err) {
		t.Fatalf("got=%v want forbidden for stranger", err)
	}
	updated, err := svc.UpdateComment(ctxForUser(admin), comment.ID, "moderated")
	if err != nil {
		t.Fatalf("got=%v want admin update to succeed", err)
	}
	if updated.Content != "moderated" {
		t.Fatalf("got=%q content want=%q", updated.Content, "moderated")
	}
}

func TestMarkHelpfulBumpsCommentAndResource(t *testing.T) {
	conn := newTestDB(t)
	analyticsRepo := repos.NewAnalyticsRepo(conn, logger.NewNop())
	svc := NewCommentService(conn, logger.NewNop(),
		repos.NewCommentRepo(conn, logger.NewNop()),
		repos.NewResourceRepo(conn, logger.NewNop()),
		analyticsRepo)
	owner := seedUser(t, conn, types.UserRoleStaff)
	reader := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})

	comment, err := svc.CreateComment(ctxForUser(owner), resource.ID, CreateCommentInput{Content: "try this"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	marked, err := svc.MarkHelpful(ctxForUser(reader), comment.ID)
	if err != nil {
		t.Fatalf("MarkHelpful failed: %v", err)
	}
	if marked.HelpfulCount != 1 {
		t.Fatalf("got=%d helpful_count want=1", marked.HelpfulCount)
	}

	row, err := analyticsRepo.GetByResourceID(ctxForUser(reader), nil, resource.ID)
	if err != nil {
		t.Fatalf("GetByResourceID failed: %v", err)
	}
	if row.HelpfulCount != 1 {
		t.Fatalf("got=%d resource helpful_count want=1", row.HelpfulCount)
	}
}

func TestListCommentsOrdersOldestFirst(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCommentService(conn, logger.NewNop(),
		repos.NewCommentRepo(conn, logger.NewNop()),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewAnalyticsRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})
	ctx := ctxForUser(owner)

	first, err := svc.CreateComment(ctx, resource.ID, CreateCommentInput{Content: "first"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	second, err := svc.CreateComment(ctx, resource.ID, CreateCommentInput{Content: "second"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := svc.ListComments(ctx, resource.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got=%d comments want=2", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("got=[%v %v] want oldest first", comments[0].ID, comments[1].ID)
	}
}
