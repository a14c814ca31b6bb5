package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController serves the admin account endpoints.
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type ListUsersQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Role   string `form:"role" binding:"omitempty,oneof=user manager admin"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// swagger:model UpdateRoleRequest
type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required,oneof=user manager admin"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param role query string false "user, manager or admin"
// @Param search query string false "Substring of username or email"
// @Success 200 {object} util.Response{data=[]model.User,pagination=util.Pagination}
// @Failure 403 {object} util.Response
// @Router /auth/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var q ListUsersQuery
	if !bindQuery(ctx, &q) {
		return
	}

	page, err := c.UserService.ListUsers(ctx.Request.Context(), service.UserQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Role:   model.UserRole(q.Role),
		Search: q.Search,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, "Users retrieved successfully", page.Users, page.Pagination)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Param body body UpdateRoleRequest true "New role"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /auth/users/{userId}/role [put]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.UserService.ChangeRole(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("userId"), req.Role)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "User role updated successfully", user)
}

// ToggleStatus godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /auth/users/{userId}/toggle-status [put]
func (c *UserController) ToggleStatus(ctx *gin.Context) {
	user, err := c.UserService.ToggleStatus(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	util.Success(ctx, msg, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Also removes the user's enrollments and the courses they created.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /auth/users/{userId} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	if err := c.UserService.DeleteUser(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("userId")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "User deleted successfully", nil)
}
