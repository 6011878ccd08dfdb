package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/repos/testutil"
	"github.com/geniusclasses/backend/internal/requestdata"
	"github.com/geniusclasses/backend/internal/types"
)

const testSecret = "test-secret-key"

func newAuthService(t *testing.T) (AuthService, repos.UserRepo, repos.UserTokenRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	svc := NewAuthService(db, log, userRepo, userTokenRepo, testSecret, time.Hour)
	return svc, userRepo, userTokenRepo
}

func seedUser(t *testing.T, userRepo repos.UserRepo, email, password string) *types.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &types.User{ID: uuid.New(), Email: email, Password: string(hash)}
	if err := userRepo.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginIssuesUsableToken(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)
	ctx := context.Background()
	user := seedUser(t, userRepo, "admin@example.com", "hunter22")

	access, refresh, err := svc.Login(ctx, "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token pair")
	}

	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("token rejected: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("wrong identity in context: %+v", rd)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)
	seedUser(t, userRepo, "admin@example.com", "hunter22")

	if _, _, err := svc.Login(context.Background(), "  Admin@Example.COM ", "hunter22"); err != nil {
		t.Fatalf("login with unnormalized email: %v", err)
	}
}

func TestLoginWrongEmailAndWrongPasswordLookAlike(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)
	ctx := context.Background()
	seedUser(t, userRepo, "admin@example.com", "hunter22")

	_, _, badEmail := svc.Login(ctx, "nobody@example.com", "hunter22")
	_, _, badPassword := svc.Login(ctx, "admin@example.com", "wrong")

	if apierr.Code(badEmail) != apierr.CodeInvalidCredential {
		t.Fatalf("bad email: %v", badEmail)
	}
	if apierr.Code(badPassword) != apierr.CodeInvalidCredential {
		t.Fatalf("bad password: %v", badPassword)
	}
	if badEmail.Error() != badPassword.Error() {
		t.Fatal("failure messages must not reveal which part was wrong")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)
	ctx := context.Background()
	seedUser(t, userRepo, "admin@example.com", "hunter22")

	access, _, err := svc.Login(ctx, "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("token rejected: %v", err)
	}

	if err := svc.Logout(authedCtx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, access); err == nil {
		t.Fatal("revoked token still accepted")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.SetContextFromToken(ctx, ""); err == nil {
		t.Fatal("empty token accepted")
	}
	if _, err := svc.SetContextFromToken(ctx, "not.a.jwt"); err == nil {
		t.Fatal("malformed token accepted")
	}
}

func TestEnsureAdminUserSeedsOnce(t *testing.T) {
	svc, userRepo, _ := newAuthService(t)
	ctx := context.Background()

	t.Setenv("ADMIN_EMAIL", "owner@example.com")
	t.Setenv("ADMIN_PASSWORD", "first-password")
	if err := svc.EnsureAdminUser(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	// A second run with a different password must not rotate the credential.
	t.Setenv("ADMIN_PASSWORD", "second-password")
	if err := svc.EnsureAdminUser(ctx); err != nil {
		t.Fatalf("re-run: %v", err)
	}

	if _, _, err := svc.Login(ctx, "owner@example.com", "first-password"); err != nil {
		t.Fatalf("original password rejected: %v", err)
	}
	if _, _, err := svc.Login(ctx, "owner@example.com", "second-password"); err == nil {
		t.Fatal("bootstrap overwrote the existing credential")
	}

	user, err := userRepo.GetByEmail(ctx, nil, "owner@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if user.Email != "owner@example.com" {
		t.Fatalf("unexpected admin email %q", user.Email)
	}
}

func TestEnsureAdminUserRequiresEnv(t *testing.T) {
	svc, _, _ := newAuthService(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	if err := svc.EnsureAdminUser(context.Background()); err == nil {
		t.Fatal("expected error without ADMIN_EMAIL/ADMIN_PASSWORD")
	}
}
