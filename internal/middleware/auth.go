package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// RequireAuth checks if the user is authenticated via a bearer token or the
// session. A present but invalid bearer token is rejected without falling
// back to the session.
func RequireAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				apierrors.Unauthorized(c, "Invalid authorization header")
				c.Abort()
				return
			}

			userID, role, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}

			setPrincipal(c, userID, role)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		if role, ok := session.Get(constants.ContextKeyUserRole).(string); ok {
			c.Set(constants.ContextKeyUserRole, models.UserRole(role))
		}
		c.Next()
	}
}

// RequireAdmin rejects principals without the admin role. It must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, userID uint64, role models.UserRole) {
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyUserRole, role)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) models.UserRole {
	switch v := c.Value(constants.ContextKeyUserRole).(type) {
	case models.UserRole:
		return v
	case string:
		return models.UserRole(v)
	default:
		return ""
	}
}

// GetActor builds the acting principal from context
func GetActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: GetUserRole(c)}, true
}
