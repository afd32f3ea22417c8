package middleware

import (
	"net/http"
	"strings"

	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextDoctorID = "doctorID"
	ContextRole     = "role"
)

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextDoctorID, claims.DoctorID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RequireAdmin checks if the authenticated doctor has the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// DoctorID returns the authenticated doctor's id, or 0 outside AuthMiddleware.
func DoctorID(c *gin.Context) uint {
	return c.GetUint(ContextDoctorID)
}
