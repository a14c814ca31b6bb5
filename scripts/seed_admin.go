// Creates an admin account, or promotes an existing one. Admins cannot
// register through the API.
//
// 用法: go run scripts/seed_admin.go -username admin -email admin@example.com -password 'Secret123'

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (required when creating)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.Open(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	user, err := users.FindByUsername(ctx, *username)
	switch {
	case err == nil:
		user.Role = model.RoleAdmin
		user.IsActive = true
		if err := users.Update(ctx, user, "role", "is_active"); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
		logger.Log.Info("Promoted existing user to admin", zap.String("username", user.Username))
	case errors.Is(err, gorm.ErrRecordNotFound):
		if *email == "" || *password == "" {
			log.Fatal("-email and -password are required to create a new admin")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = &model.User{
			Username: *username,
			Email:    strings.ToLower(strings.TrimSpace(*email)),
			Password: string(hash),
			Role:     model.RoleAdmin,
			IsActive: true,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		logger.Log.Info("Created admin", zap.String("username", user.Username), zap.String("id", user.ID))
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}
}
