package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/database"

	"github.com/gin-gonic/gin"
)

func setup(t *testing.T) (*config.Config, *repository.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: config.ModeTest},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "mw.db")},
		JWT:      config.JWTConfig{Secret: "mw-secret", ExpireTime: time.Hour},
	}
	db, err := database.Open(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return cfg, repository.NewUserRepository(db)
}

func createUser(t *testing.T, users *repository.UserRepository, name string, role model.UserRole, active bool) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Password: "x", Role: role, IsActive: true}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !active {
		u.IsActive = false
		if err := users.Update(context.Background(), u, "is_active"); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
	}
	return u
}

func token(t *testing.T, cfg *config.Config, u *model.User, exp time.Duration) string {
	t.Helper()
	tok, err := util.GenerateJWT(u, cfg.JWT.Secret, exp)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func call(r *gin.Engine, auth string) (int, util.Response) {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var body util.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body
}

func TestAuthMiddleware(t *testing.T) {
	cfg, users := setup(t)
	active := createUser(t, users, "alice", model.RoleUser, true)
	inactive := createUser(t, users, "bob", model.RoleUser, false)
	ghost := &model.User{UUIDBase: model.UUIDBase{ID: "00000000-0000-0000-0000-000000000000"}, Role: model.RoleUser}

	r := gin.New()
	r.GET("/p", AuthMiddleware(cfg, users), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username, nil)
	})

	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "Access denied. No token provided or invalid format."},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, "Access denied. No token provided or invalid format."},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "Invalid token."},
		{"expired", "Bearer " + token(t, cfg, active, -time.Minute), http.StatusUnauthorized, "Token has expired. Please login again."},
		{"unknown user", "Bearer " + token(t, cfg, ghost, time.Hour), http.StatusUnauthorized, "Invalid token. User not found."},
		{"inactive", "Bearer " + token(t, cfg, inactive, time.Hour), http.StatusUnauthorized, "Account has been deactivated."},
		{"ok", "Bearer " + token(t, cfg, active, time.Hour), http.StatusOK, "alice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(r, tc.header)
			if status != tc.status || body.Message != tc.msg {
				t.Fatalf("got %d %q, want %d %q", status, body.Message, tc.status, tc.msg)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg, users := setup(t)
	admin := createUser(t, users, "root", model.RoleAdmin, true)
	plain := createUser(t, users, "dave", model.RoleUser, true)

	r := gin.New()
	r.GET("/p", AuthMiddleware(cfg, users), RoleMiddleware(model.RoleAdmin, model.RoleManager), func(c *gin.Context) {
		util.Success(c, "ok", nil)
	})

	if status, _ := call(r, "Bearer "+token(t, cfg, plain, time.Hour)); status != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", status)
	}
	if status, _ := call(r, "Bearer "+token(t, cfg, admin, time.Hour)); status != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", status)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(util.RequestIDKey)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if generated == "" || rec.Body.String() != generated {
		t.Fatalf("expected generated id echoed, header=%q body=%q", generated, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller id to be kept, got %q", got)
	}
}
