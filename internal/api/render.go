package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// render shows a page, consuming any queued flash messages
func render(c *gin.Context, sm *session.Manager, status int, name string, data gin.H) {
	s := session.FromContext(c)
	flashes := s.PopFlashes() // Flashes are shown exactly once
	persist(c, sm, s)
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = flashes // Messages for this page
	data["Session"] = s       // Current identity for the nav bar
	c.HTML(status, name, data)
}

// redirect saves pending session changes and sends the browser to path
func redirect(c *gin.Context, sm *session.Manager, path string) {
	persist(c, sm, session.FromContext(c))
	c.Redirect(http.StatusFound, path)
}

// flashRedirect queues a message and redirects
func flashRedirect(c *gin.Context, sm *session.Manager, category, message, path string) {
	session.FromContext(c).AddFlash(category, message)
	redirect(c, sm, path)
}

// persist writes the session if it changed during this request
func persist(c *gin.Context, sm *session.Manager, s *session.Session) {
	if !s.Dirty() {
		return
	}
	if err := sm.Save(c, s); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route that changed the session
			"error": err.Error(),  // Error message
		}).Error("Failed to save session")
	}
}

// notFound renders the error page with a 404 status
func notFound(c *gin.Context, sm *session.Manager, message string) {
	render(c, sm, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": message})
}

// serverError logs err with fields and renders a generic 500 page
func serverError(c *gin.Context, sm *session.Manager, err error, msg string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["error"] = err.Error() // Error message
	fields["path"] = c.FullPath() // Route that failed
	logrus.WithFields(fields).Error(msg)
	render(c, sm, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "Please try again in a moment.",
	})
}
