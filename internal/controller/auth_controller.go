package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account with role user (default) or manager and returns a token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Registration"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Username or email taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, "User registered successfully", result)
}

// Login godoc
// @Summary Log in
// @Description Accepts the username or the email together with the password.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Login successful", result)
}

// GetProfile godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 401 {object} util.Response
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	profile, err := c.AuthService.GetProfile(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Profile retrieved successfully", profile)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 400 {object} util.Response
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req service.UpdateProfileInput
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.AuthService.UpdateProfile(ctx.Request.Context(), util.GetUserFromContext(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Profile updated successfully", profile)
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChangePasswordInput true "Current and new password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /auth/change-password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req service.ChangePasswordInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.AuthService.ChangePassword(ctx.Request.Context(), util.GetUserFromContext(ctx), req); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, "Password changed successfully", nil)
}
