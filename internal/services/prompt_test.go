package services

import (
	"context"
	"testing"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/types"
)

func TestPrivatePromptIsOwnerOnly(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	stranger := seedUser(t, conn, types.UserRoleStaff)
	admin := seedUser(t, conn, types.UserRoleAdmin)

	prompt, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Essay feedback prompt",
		PromptText:   "You are a writing tutor...",
		SharingLevel: types.SharingPrivate,
	})
	if err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	if _, err := svc.GetPrompt(ctxForUser(stranger), prompt.ID); !apperr.IsNotFound(err) {
		t.Fatalf("got=%v want not found for stranger", err)
	}
	if _, err := svc.GetPrompt(ctxForUser(owner), prompt.ID); err != nil {
		t.Fatalf("got=%v want owner read to succeed", err)
	}
	if _, err := svc.GetPrompt(ctxForUser(admin), prompt.ID); err != nil {
		t.Fatalf("got=%v want admin read to succeed", err)
	}
}

func TestListPromptsScopesPrivateToViewer(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	other := seedUser(t, conn, types.UserRoleStaff)

	if _, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Shared prompt",
		PromptText:   "text",
		SharingLevel: types.SharingDepartment,
	}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}
	if _, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Secret prompt",
		PromptText:   "text",
		SharingLevel: types.SharingPrivate,
	}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	asOwner, err := svc.ListPrompts(ctxForUser(owner), repos.PromptFilter{})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(asOwner) != 2 {
		t.Fatalf("got=%d prompts want=2 for owner", len(asOwner))
	}

	asOther, err := svc.ListPrompts(ctxForUser(other), repos.PromptFilter{})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(asOther) != 1 {
		t.Fatalf("got=%d prompts want=1 for other viewer", len(asOther))
	}
	if asOther[0].Title != "Shared prompt" {
		t.Fatalf("got=%q title want the shared prompt", asOther[0].Title)
	}
}

func TestListPromptsHidesPrivateFromAnonymous(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	admin := seedUser(t, conn, types.UserRoleAdmin)

	if _, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Public prompt",
		PromptText:   "text",
		SharingLevel: types.SharingPublic,
	}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}
	if _, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Secret prompt",
		PromptText:   "text",
		SharingLevel: types.SharingPrivate,
	}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	anonymous, err := svc.ListPrompts(context.Background(), repos.PromptFilter{})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(anonymous) != 1 || anonymous[0].Title != "Public prompt" {
		t.Fatalf("got=%d prompts want only the public one for anonymous", len(anonymous))
	}

	asAdmin, err := svc.ListPrompts(ctxForUser(admin), repos.PromptFilter{})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(asAdmin) != 2 {
		t.Fatalf("got=%d prompts want=2 for admin", len(asAdmin))
	}
}

func TestListPromptsPrivateFilterIsOwnerScoped(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	stranger := seedUser(t, conn, types.UserRoleStaff)

	if _, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Secret prompt",
		PromptText:   "text",
		SharingLevel: types.SharingPrivate,
	}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	asOwner, err := svc.ListPrompts(ctxForUser(owner), repos.PromptFilter{SharingLevel: types.SharingPrivate})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(asOwner) != 1 {
		t.Fatalf("got=%d prompts want=1 for owner", len(asOwner))
	}

	asStranger, err := svc.ListPrompts(ctxForUser(stranger), repos.PromptFilter{SharingLevel: types.SharingPrivate})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(asStranger) != 0 {
		t.Fatalf("got=%d prompts want=0 for stranger requesting private", len(asStranger))
	}

	anonymous, err := svc.ListPrompts(context.Background(), repos.PromptFilter{SharingLevel: types.SharingPrivate})
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(anonymous) != 0 {
		t.Fatalf("got=%d prompts want=0 for anonymous requesting private", len(anonymous))
	}
}

func TestForkPromptCreatesPrivateCopyWithLineage(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	forker := seedUser(t, conn, types.UserRoleStaff)

	origin, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Rubric prompt",
		PromptText:   "Grade against this rubric: {rubric}",
		Variables:    []string{"rubric"},
		SharingLevel: types.SharingPublic,
	})
	if err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	fork, err := svc.ForkPrompt(ctxForUser(forker), origin.ID)
	if err != nil {
		t.Fatalf("ForkPrompt failed: %v", err)
	}
	if !fork.IsFork || fork.ForkedFromID == nil || *fork.ForkedFromID != origin.ID {
		t.Fatalf("got=%+v want fork lineage to %v", fork, origin.ID)
	}
	if fork.SharingLevel != types.SharingPrivate {
		t.Fatalf("got=%v sharing_level want private copy", fork.SharingLevel)
	}
	if fork.UserID != forker.ID {
		t.Fatalf("got=%v owner want=%v", fork.UserID, forker.ID)
	}

	usage, err := svc.GetUsage(ctxForUser(owner), origin.ID)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if usage.ForkCount != 1 {
		t.Fatalf("got=%d fork_count want=1", usage.ForkCount)
	}
}

func TestUsePromptCountsAndUsageIsOwnerOnly(t *testing.T) {
	conn := newTestDB(t)
	svc := NewPromptService(conn, logger.NewNop(), repos.NewPromptRepo(conn, logger.NewNop()))
	owner := seedUser(t, conn, types.UserRoleStaff)
	reader := seedUser(t, conn, types.UserRoleStaff)

	prompt, err := svc.CreatePrompt(ctxForUser(owner), CreatePromptInput{
		Title:        "Summary prompt",
		PromptText:   "Summarize the following",
		SharingLevel: types.SharingPublic,
	})
	if err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.UsePrompt(ctxForUser(reader), prompt.ID); err != nil {
			t.Fatalf("UsePrompt failed: %v", err)
		}
	}

	if _, err := svc.GetUsage(ctxForUser(reader), prompt.ID); !apperr.IsForbidden(err) {
		t.Fatalf("got=%v want forbidden usage read for non-owner", err)
	}
	usage, err := svc.GetUsage(ctxForUser(owner), prompt.ID)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if usage.UsageCount != 2 {
		t.Fatalf("got=%d usage_count want=2", usage.UsageCount)
	}
}
