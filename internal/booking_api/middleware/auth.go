package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
)

// TokenVerifier turns a bearer token into the identity it was issued for
type TokenVerifier interface {
	Verify(token string) (*identity.Identity, error)
}

// Authenticate attaches the caller's identity to the request context when a
// valid bearer token is present. Requests without a token pass through
// anonymously; an invalid token is rejected.
func Authenticate(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header must use the Bearer scheme")
			return
		}

		id, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("Rejected access token", "error", err, "correlation_id", GetCorrelationID(c))
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired access token")
			return
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := identity.FromContext(c.Request.Context()); err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. The services check the
// role again; this only keeps non-admins away from the admin routes early.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity.FromContext(c.Request.Context())
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}
		if !id.IsAdmin() {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin role required")
			return
		}
		c.Next()
	}
}
