package middleware

import (
	"net/http"

	"github.com/01moynul/resellerhub-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

//
// --- Auth Middleware ---
//
// Identity travels in a signed token inside an HTTP-only cookie. The role
// is embedded in the token claims, so the guards below never touch the
// database.
//

// AuthMiddleware validates the cookie token and stores the caller's
// identity in the gin context for the handlers downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.CookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID, role, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. It rejects callers whose
// token role does not match the route's required role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}

		if userRole.(string) != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}
