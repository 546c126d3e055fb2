package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-backoffice/utils"
)

const SessionCookie = "session"

// SessionVerifier checks a raw session token.
type SessionVerifier interface {
	Verify(raw string) (*utils.SessionClaims, error)
}

func sessionToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireSession admits requests carrying a valid staff session, from the
// Authorization header or the session cookie.
func RequireSession(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		claims, err := v.Verify(raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set("staff_id", claims.StaffID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}
