package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/database"

	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	users       *repository.UserRepository
	courses     *CourseService
	lessons     *LessonService
	enrollments *EnrollmentService
	auth        *AuthService
	admin       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: config.ModeTest},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "service.db")},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage:  config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir(), PublicURL: "http://localhost:8000"},
	}
	db, err := database.Open(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courses := NewCourseService(courseRepo, enrollmentRepo)

	return &testEnv{
		db:          db,
		cfg:         cfg,
		users:       userRepo,
		courses:     courses,
		lessons:     NewLessonService(courses),
		enrollments: NewEnrollmentService(courseRepo, enrollmentRepo),
		auth:        NewAuthService(userRepo, enrollmentRepo, cfg),
		admin:       NewUserService(userRepo),
	}
}

func (e *testEnv) user(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Password: "x", Role: role, IsActive: true}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (e *testEnv) course(t *testing.T, author *model.User, title string, published bool) *CourseView {
	t.Helper()
	view, err := e.courses.CreateCourse(context.Background(), author, CreateCourseInput{
		Title:       title,
		Description: "About " + title,
		ImageURL:    "https://example.com/" + title + ".png",
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("create course %s: %v", title, err)
	}
	return view
}

func lesson(id string, minutes int) LessonInput {
	return LessonInput{
		ID:              id,
		Title:           "Lesson " + id,
		Materials:       []string{"https://example.com/" + id},
		Topics:          []string{"basics"},
		SubjectCategory: "General",
		Duration:        minutes,
	}
}

func expectKind(t *testing.T, err error, kind util.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := util.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func listTitles(t *testing.T, e *testEnv, viewer *model.User) map[string]CourseView {
	t.Helper()
	page, err := e.courses.ListCourses(context.Background(), viewer, CourseQuery{Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make(map[string]CourseView, len(page.Courses))
	for _, c := range page.Courses {
		out[c.Title] = c
	}
	return out
}
