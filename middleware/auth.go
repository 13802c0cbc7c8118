package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// AuthMiddleware authenticates the request from the session cookie, falling
// back to a Bearer JWT for API clients. The resolved user is set in the
// context under "user".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c)
		if !ok {
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			utils.LogError("Authenticated user %d not found: %v", userID, err)
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		if user.IsBlocked {
			utils.LogError("Blocked user attempted access: %d", user.ID)
			utils.Forbidden(c, "Account is blocked")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func resolveUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	if id, ok := session.Get("user_id").(uint); ok {
		return id, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return 0, false
	}

	userID, err := utils.ValidateToken(tokenString)
	if err != nil {
		utils.LogError("Invalid token: %v", err)
		return 0, false
	}
	return userID, true
}

// AdminMiddleware requires an authenticated admin user. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		user, ok := userVal.(models.User)
		if !ok {
			utils.InternalServerError(c, "Invalid user type", nil)
			c.Abort()
			return
		}

		if !user.IsAdmin {
			utils.LogError("Non-admin user attempted admin access: %d", user.ID)
			utils.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
