package service

import (
	"context"
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// UserQuery is an admin listing request.
type UserQuery struct {
	Page   int
	Limit  int
	Role   model.UserRole
	Search string
}

type UserPage struct {
	Users      []model.User
	Pagination *util.Pagination
}

// UserService holds the admin operations on accounts.
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func (s *UserService) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	if q.Page < 1 {
		q.Page = util.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = util.DefaultLimit
	}
	if q.Limit > util.MaxLimit {
		q.Limit = util.MaxLimit
	}

	users, total, err := s.UserRepo.List(ctx, repository.UserFilter{Role: q.Role, Search: q.Search}, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserPage{Users: users, Pagination: util.NewPagination(q.Page, q.Limit, total)}, nil
}

// ChangeRole sets another user's role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actor *model.User, userID string, role model.UserRole) (*model.User, error) {
	if !role.Valid() {
		return nil, util.Validation("Validation failed", map[string]string{"role": "must be one of [user, manager, admin]"})
	}
	if actor.ID == userID {
		return nil, util.InvalidStatef("You cannot change your own role")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.UserRepo.Update(ctx, user, "role"); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return user, nil
}

// ToggleStatus activates or deactivates another user.
func (s *UserService) ToggleStatus(ctx context.Context, actor *model.User, userID string) (*model.User, error) {
	if actor.ID == userID {
		return nil, util.InvalidStatef("You cannot deactivate your own account")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.UserRepo.Update(ctx, user, "is_active"); err != nil {
		return nil, fmt.Errorf("toggle status: %w", err)
	}
	return user, nil
}

// DeleteUser removes another user with their enrollments and authored courses.
func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, userID string) error {
	if actor.ID == userID {
		return util.InvalidStatef("You cannot delete your own account")
	}
	if !model.IsValidID(userID) {
		return util.ErrUserNotFound
	}
	if err := s.UserRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserService) findUser(ctx context.Context, id string) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, util.ErrUserNotFound
	}
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
