package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/geniusclasses/backend/internal/gate"
	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/repos/testutil"
	"github.com/geniusclasses/backend/internal/services"
	"github.com/geniusclasses/backend/internal/types"
)

func loginRouter(t *testing.T) (*gin.Engine, *gate.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	authService := services.NewAuthService(db, log, userRepo, userTokenRepo, "test-secret", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &types.User{ID: uuid.New(), Email: "admin@example.com", Password: string(hash)}
	if err := userRepo.Create(context.Background(), nil, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	registry := gate.NewRegistry(log)
	ah := NewAuthHandler(authService, registry)

	r := gin.New()
	r.POST("/api/admin/login", ah.Login)
	return r, registry
}

func TestLoginDropsGateSession(t *testing.T) {
	r, registry := loginRouter(t)

	token, m := registry.Begin()
	m.Press(3 * time.Second)

	w, payload := postJSON(t, r, "/api/admin/login",
		`{"email":"admin@example.com","password":"hunter22","gateToken":"`+token+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}
	if access, _ := payload["access_token"].(string); access == "" {
		t.Fatal("no access token in response")
	}
	if registry.Get(token) != nil {
		t.Fatal("gate session survived a successful login")
	}
}

func TestFailedLoginKeepsGateSession(t *testing.T) {
	r, registry := loginRouter(t)

	token, _ := registry.Begin()
	w, _ := postJSON(t, r, "/api/admin/login",
		`{"email":"admin@example.com","password":"wrong","gateToken":"`+token+`"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if registry.Get(token) == nil {
		t.Fatal("gate session dropped despite failed login")
	}
}

func TestLoginWithoutGateToken(t *testing.T) {
	r, _ := loginRouter(t)

	w, _ := postJSON(t, r, "/api/admin/login",
		`{"email":"admin@example.com","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login without gate token status %d", w.Code)
	}
}
