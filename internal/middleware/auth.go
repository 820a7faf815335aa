package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/config"
	"galleria/api/internal/models"
	"galleria/api/internal/security"
)

// Cookie names are fixed per principal kind; the two guards never read each
// other's cookie.
const (
	CookieAdminToken = "admin_token"
	CookieUserToken  = "user_token"
)

// Context keys set by the guards for downstream handlers.
const (
	CtxAdminID    = "admin_id"
	CtxAdminEmail = "admin_email"
	CtxUserID     = "user_id"
	CtxUserEmail  = "user_email"
)

// AdminAuth admits only requests carrying a valid admin_token cookie whose
// role claim is admin. 401 for a missing or invalid token, 403 for a valid
// token of the wrong role.
func AdminAuth(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieAdminToken)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		claims, err := security.ParseAdminToken(token, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		if claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admins_only"})
			return
		}

		c.Set(CtxAdminID, claims.AdminID)
		c.Set(CtxAdminEmail, claims.Email)

		c.Next()
	}
}

// UserAuth admits requests carrying a valid user token, from the
// Authorization header first, falling back to the user_token cookie.
// Any successfully verified user token authorizes; there is no role check.
func UserAuth(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(CookieUserToken)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		claims, err := security.ParseUserToken(token, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
