package middleware

import (
	"errors"
	"strings"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errNoToken      = util.Unauthenticatedf("Access denied. No token provided or invalid format.")
	errTokenExpired = util.Unauthenticatedf("Token has expired. Please login again.")
	errTokenInvalid = util.Unauthenticatedf("Invalid token.")
	errUserGone     = util.Unauthenticatedf("Invalid token. User not found.")
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// resolveUser maps a bearer token to an active user. The user is loaded
// from the store so role changes and deactivation apply immediately.
func resolveUser(c *gin.Context, cfg *config.Config, users *repository.UserRepository, token string) (*model.User, error) {
	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	if err != nil {
		if util.IsTokenExpired(err) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}

	user, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserGone
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, util.ErrAccountInactive
	}
	return user, nil
}

// AuthMiddleware rejects requests without a valid bearer token for an
// active user and stores the user under util.CurrentUserKey.
func AuthMiddleware(cfg *config.Config, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			util.HandleError(c, errNoToken)
			return
		}

		user, err := resolveUser(c, cfg, users, token)
		if err != nil {
			util.HandleError(c, err)
			return
		}

		c.Set(util.CurrentUserKey, user)
		c.Next()
	}
}

// RoleMiddleware only lets users with one of roles through. It must run
// after AuthMiddleware.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.HandleError(c, util.Unauthenticatedf("Authentication required."))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		util.HandleError(c, util.Forbiddenf("Access denied. Insufficient permissions."))
	}
}
