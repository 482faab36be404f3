package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/unistaff/aihub-backend/internal/apperr"
	"github.com/unistaff/aihub-backend/internal/logger"
	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/requestdata"
	"github.com/unistaff/aihub-backend/internal/types"
)

func newAuthService(t *testing.T, allowedDomains []string) AuthService {
	t.Helper()
	conn := newTestDB(t)
	return NewAuthService(conn, logger.NewNop(),
		repos.NewUserRepo(conn, logger.NewNop()),
		repos.NewUserTokenRepo(conn, logger.NewNop()),
		"test-secret",
		15*time.Minute,
		24*time.Hour,
		allowedDomains)
}

func TestRegisterUserHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc := newAuthService(t, nil)

	user, err := svc.RegisterUser(context.Background(), RegisterInput{
		Email:    "  Alice@Example.EDU ",
		Password: "supersecret",
		FullName: "Alice Smith",
	})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if user.Email != "alice@example.edu" {
		t.Fatalf("got=%q email want normalized", user.Email)
	}
	if user.Password == "supersecret" {
		t.Fatalf("got plaintext password in stored user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")); err != nil {
		t.Fatalf("stored password is not a bcrypt hash of the input: %v", err)
	}
	if user.Role != types.UserRoleStaff {
		t.Fatalf("got=%v role want staff default", user.Role)
	}
}

func TestRegisterUserRejectsShortPassword(t *testing.T) {
	svc := newAuthService(t, nil)

	_, err := svc.RegisterUser(context.Background(), RegisterInput{
		Email:    "bob@example.edu",
		Password: "short",
		FullName: "Bob",
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("got=%v want validation error", err)
	}
}

func TestRegisterUserEnforcesAllowedDomains(t *testing.T) {
	svc := newAuthService(t, []string{"example.edu"})

	if _, err := svc.RegisterUser(context.Background(), RegisterInput{
		Email:    "carol@gmail.com",
		Password: "supersecret",
		FullName: "Carol",
	}); !apperr.IsValidation(err) {
		t.Fatalf("got=%v want validation error for foreign domain", err)
	}
	if _, err := svc.RegisterUser(context.Background(), RegisterInput{
		Email:    "carol@example.edu",
		Password: "supersecret",
		FullName: "Carol",
	}); err != nil {
		t.Fatalf("got=%v want allowed domain to register", err)
	}
}

func TestLoginIssuesTokensUsableForAuth(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterInput{
		Email:    "dave@example.edu",
		Password: "supersecret",
		FullName: "Dave",
	})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}

	if _, _, err := svc.LoginUser(ctx, "dave@example.edu", "wrong-password"); !apperr.IsUnauthorized(err) {
		t.Fatalf("got=%v want unauthorized for bad password", err)
	}

	access, refresh, err := svc.LoginUser(ctx, "dave@example.edu", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("got empty tokens from login")
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken failed: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("got=%+v request data want user %v", rd, user.ID)
	}
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, RegisterInput{
		Email:    "erin@example.edu",
		Password: "supersecret",
		FullName: "Erin",
	}); err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	access, refresh, err := svc.LoginUser(ctx, "erin@example.edu", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken failed: %v", err)
	}
	newAccess, newRefresh, err := svc.RefreshUser(authed)
	if err != nil {
		t.Fatalf("RefreshUser failed: %v", err)
	}
	if newAccess == access || newRefresh == refresh {
		t.Fatalf("got unrotated tokens from refresh")
	}

	// The old pair was deleted during rotation.
	if _, _, err := svc.RefreshUser(authed); !apperr.IsUnauthorized(err) {
		t.Fatalf("got=%v want unauthorized refresh with stale token", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, nil)

	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); !apperr.IsUnauthorized(err) {
		t.Fatalf("got=%v want unauthorized for malformed token", err)
	}
}
