package services

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/types"
)

func TestFindSimilarRequiresCriteria(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		false)
	user := seedUser(t, conn, types.UserRoleStaff)

	if _, err := svc.FindSimilar(ctxForUser(user), "", nil, 10); !apperr.IsValidation(err) {
		t.Fatalf("got=%v want validation error without criteria", err)
	}
}

func TestFindSimilarScoresToolOverlapAndDiscipline(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		false)
	user := seedUser(t, conn, types.UserRoleStaff)

	// Two tool matches plus discipline bonus.
	best := seedResource(t, conn, &types.Resource{
		UserID:     user.ID,
		Discipline: "Biology",
		ToolsUsed:  datatypes.NewJSONSlice([]string{"ChatGPT", "Claude"}),
	})
	// Discipline only.
	disciplineOnly := seedResource(t, conn, &types.Resource{
		UserID:     user.ID,
		Discipline: "Biology",
		ToolsUsed:  datatypes.NewJSONSlice([]string{"Copilot"}),
	})
	// One tool match.
	oneTool := seedResource(t, conn, &types.Resource{
		UserID:     user.ID,
		Discipline: "History",
		ToolsUsed:  datatypes.NewJSONSlice([]string{"Claude"}),
	})
	// No overlap at all: must not appear.
	seedResource(t, conn, &types.Resource{
		UserID:     user.ID,
		Discipline: "History",
		ToolsUsed:  datatypes.NewJSONSlice([]string{"Midjourney"}),
	})

	results, err := svc.FindSimilar(ctxForUser(user), "biology", []string{"chatgpt", "claude"}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got=%d results want=3", len(results))
	}
	if results[0].Resource.ID != best.ID || results[0].Score != 4 {
		t.Fatalf("got=%v score=%d want best match %v with score 4", results[0].Resource.ID, results[0].Score, best.ID)
	}
	if results[1].Resource.ID != disciplineOnly.ID || results[1].Score != 2 {
		t.Fatalf("got=%v score=%d want discipline-only match second", results[1].Resource.ID, results[1].Score)
	}
	if results[2].Resource.ID != oneTool.ID || results[2].Score != 1 {
		t.Fatalf("got=%v score=%d want single-tool match last", results[2].Resource.ID, results[2].Score)
	}
}

func TestFindSimilarBreaksTiesNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		false)
	user := seedUser(t, conn, types.UserRoleStaff)

	older := seedResource(t, conn, &types.Resource{
		UserID:    user.ID,
		ToolsUsed: datatypes.NewJSONSlice([]string{"ChatGPT"}),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})
	newer := seedResource(t, conn, &types.Resource{
		UserID:    user.ID,
		ToolsUsed: datatypes.NewJSONSlice([]string{"ChatGPT"}),
		CreatedAt: time.Now().UTC(),
	})

	results, err := svc.FindSimilar(ctxForUser(user), "", []string{"ChatGPT"}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got=%d results want=2", len(results))
	}
	if results[0].Resource.ID != newer.ID || results[1].Resource.ID != older.ID {
		t.Fatalf("got=[%v %v] want newest first on tie", results[0].Resource.ID, results[1].Resource.ID)
	}
}

func TestGetOptionsListsContactChannels(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{
		UserID:              user.ID,
		CollaborationStatus: types.CollaborationSeeking,
		OpenToCollaborate:   datatypes.NewJSONSlice([]string{"co-teaching", "research"}),
	})

	withoutMessaging := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		false)
	options, err := withoutMessaging.GetOptions(ctxForUser(user), resource.ID)
	if err != nil {
		t.Fatalf("GetOptions failed: %v", err)
	}
	if len(options.ContactChannels) != 1 || options.ContactChannels[0] != "email" {
		t.Fatalf("got=%v channels want only email", options.ContactChannels)
	}
	if options.CollaborationStatus != types.CollaborationSeeking {
		t.Fatalf("got=%v status want seeking", options.CollaborationStatus)
	}
	if len(options.OpenToCollaborate) != 2 {
		t.Fatalf("got=%v want both collaboration modes", options.OpenToCollaborate)
	}

	withMessaging := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		true)
	options, err = withMessaging.GetOptions(ctxForUser(user), resource.ID)
	if err != nil {
		t.Fatalf("GetOptions failed: %v", err)
	}
	if len(options.ContactChannels) != 2 || options.ContactChannels[1] != "internal_messaging" {
		t.Fatalf("got=%v channels want email and internal_messaging", options.ContactChannels)
	}
}

func TestRequestCollaborationRejectsOwnResource(t *testing.T) {
	conn := newTestDB(t)
	svc := NewCollaborationService(conn, logger.NewNop(),
		repos.NewResourceRepo(conn, logger.NewNop()),
		repos.NewCollaborationRequestRepo(conn, logger.NewNop()),
		false)
	owner := seedUser(t, conn, types.UserRoleStaff)
	requester := seedUser(t, conn, types.UserRoleStaff)
	resource := seedResource(t, conn, &types.Resource{UserID: owner.ID})

	if _, err := svc.RequestCollaboration(ctxForUser(owner), resource.ID, "hi"); !apperr.IsValidation(err) {
		t.Fatalf("got=%v want validation error for own resource", err)
	}

	request, err := svc.RequestCollaboration(ctxForUser(requester), resource.ID, "  let's talk  ")
	if err != nil {
		t.Fatalf("RequestCollaboration failed: %v", err)
	}
	if request.Status != "sent" {
		t.Fatalf("got=%q status want=sent", request.Status)
	}
	if request.Message != "let's talk" {
		t.Fatalf("got=%q message want trimmed", request.Message)
	}
	if request.FromUserID != requester.ID {
		t.Fatalf("got=%v from_user_id want=%v", request.FromUserID, requester.ID)
	}
}
