package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mood-tracker/internal/service"
)

const authClaimsKey = "auth_claims"

// OptionalJWTAuthMiddleware acepta requests anonimos. Si viene un token debe ser valido.
func OptionalJWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		if !jwtSvc.Enabled() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication not configured"})
			c.Abort()
			return
		}
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// scopeFrom devuelve el scope del request; vacio es el scope anonimo.
func scopeFrom(c *gin.Context) string {
	claims, ok := GetAuthClaims(c)
	if !ok {
		return ""
	}
	return claims.UserID
}
