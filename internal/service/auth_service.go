package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is the body of a sign-up request. Admin accounts cannot be
// self-registered.
// swagger:model RegisterInput
type RegisterInput struct {
	Username  string         `json:"username" binding:"required,min=3,max=50,username"`
	Email     string         `json:"email" binding:"required,email,max=100"`
	Password  string         `json:"password" binding:"required,min=6,max=72,password"`
	Role      model.UserRole `json:"role" binding:"omitempty,oneof=user manager"`
	FirstName string         `json:"firstName" binding:"omitempty,max=50"`
	LastName  string         `json:"lastName" binding:"omitempty,max=50"`
}

// LoginInput accepts either the username or the email in Username.
// swagger:model LoginInput
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput changes the non-nil profile fields.
// swagger:model UpdateProfileInput
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" binding:"omitnil,max=50"`
	LastName  *string `json:"lastName" binding:"omitnil,max=50"`
	Avatar    *string `json:"avatar" binding:"omitempty,httpurl"`
}

// swagger:model ChangePasswordInput
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72,password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Profile is the current user with their enrolled-courses set.
type Profile struct {
	*model.User
	EnrolledCourses []string `json:"enrolledCourses"`
}

type AuthService struct {
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Cfg            *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, enrollmentRepo *repository.EnrollmentRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		Cfg:            cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.UserRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find username: %w", err)
	}
	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Username:  in.Username,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      role,
		IsActive:  true,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.Conflictf("Username or email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByCredential(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidLogin
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidLogin
	}
	if !user.IsActive {
		return nil, util.ErrAccountInactive
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.UserRepo.Update(ctx, user, "last_login"); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, user *model.User) (*Profile, error) {
	ids, err := s.EnrollmentRepo.CourseIDsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load enrolled courses: %w", err)
	}
	return &Profile{User: user, EnrolledCourses: ids}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, in UpdateProfileInput) (*Profile, error) {
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if err := s.UserRepo.Update(ctx, user, "first_name", "last_name", "avatar"); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	fresh, err := s.UserRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return s.GetProfile(ctx, fresh)
}

func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, in ChangePasswordInput) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return util.Validation("Current password is incorrect", map[string]string{"currentPassword": "is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if err := s.UserRepo.Update(ctx, user, "password"); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
