package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cocopets/boarding/internal/domain/models"
)

// Gin context keys set by the middleware.
const (
	ContextUserID = "auth.userID"
	ContextRole   = "auth.role"
)

// Middleware validates bearer tokens and injects the caller identity.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := tm.VerifyAccess(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after Middleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok || role.(models.Role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "AUTHORIZATION_ERROR", "message": "admin access required"},
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's ID from the gin context.
func UserID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(ContextUserID)
	oid, _ := id.(primitive.ObjectID)
	return oid
}

// RoleOf returns the authenticated caller's role from the gin context.
func RoleOf(c *gin.Context) models.Role {
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return r
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "AUTHORIZATION_ERROR", "message": message},
	})
}
