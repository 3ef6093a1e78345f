package middleware

import (
	"net/http" // HTTP status codes

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BuyerIDKey is the gin context key holding the authenticated buyer's user id
const BuyerIDKey = "buyerID"

// BuyerOnlyMiddleware lets only sessions with the buyer role through. Anyone
// else is sent to the login page, with message flashed when it is not empty
func BuyerOnlyMiddleware(m *session.Manager, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c) // Session loaded by SessionMiddleware
		// Check the role stored at login
		if !s.HasRole(domain.RoleBuyer) {
			if message != "" {
				s.AddFlash(session.FlashDanger, message) // Tell the visitor why
				if err := m.Save(c, s); err != nil {
					logrus.WithField("error", err.Error()).Warn("Failed to save session flash")
				}
			}
			c.Redirect(http.StatusFound, "/login") // Send to login
			c.Abort()
			return
		}
		c.Set(BuyerIDKey, s.UserID) // Store buyer id in context
		c.Next()                    // Proceed to the next handler
	}
}
