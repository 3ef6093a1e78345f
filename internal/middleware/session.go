package middleware

import (
	"storefront/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SessionMiddleware loads the visitor's session into the request context and
// slides the expiry of authenticated sessions on every request
func SessionMiddleware(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c) // Never nil, anonymous when there is no valid cookie
		// Refresh the idle window for logged in users
		if s.Authenticated() {
			if err := m.Save(c, s); err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": s.UserID,    // Session owner
					"error":   err.Error(), // Error message
				}).Warn("Failed to refresh session")
			}
		}
		c.Set(session.ContextKey, s) // Request-scoped identity
		c.Next()                     // Proceed to the next handler
	}
}
