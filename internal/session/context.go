package session

import "github.com/gin-gonic/gin" // Gin web framework

// ContextKey is where the request's session lives in the gin context
const ContextKey = "session"

// FromContext returns the request's session, or a throwaway anonymous one
// when the session middleware did not run
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(ContextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := New()
	c.Set(ContextKey, s) // Later calls see the same session
	return s
}
