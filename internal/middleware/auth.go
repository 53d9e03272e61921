package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/access"
	"github.com/ukuvago/themeboard/internal/services"
)

const principalKey = "principal"

// AuthMiddleware validates JWT tokens
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			abort(c, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		SetPrincipal(c, claims.Principal())
		c.Next()
	}
}

// OptionalAuthMiddleware validates JWT tokens but doesn't require them. A
// missing or bad token leaves the request anonymous.
func OptionalAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		SetPrincipal(c, claims.Principal())
		c.Next()
	}
}

// Authorize lets the request through only if gate allows op for the
// request's principal.
func Authorize(gate access.Gate, op access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if gate.IsAuthorized(principal, op) {
			c.Next()
			return
		}

		if !principal.Authenticated() {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		abort(c, http.StatusForbidden, "Admin access required")
	}
}

// GetPrincipal returns the caller's identity, anonymous if none was set.
func GetPrincipal(c *gin.Context) access.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return access.Principal{}
	}
	principal, _ := value.(access.Principal)
	return principal
}

// SetPrincipal stores p as the caller's identity.
func SetPrincipal(c *gin.Context, p access.Principal) {
	c.Set(principalKey, p)
}

// Extract token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
