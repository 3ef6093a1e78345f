package session

import (
	"errors"   // Error matching
	"net/http" // Cookie attributes
	"strings"  // Header filtering
	"time"     // Idle lifetime

	"storefront/internal/utils" // Cookie token signing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CookieName is the cookie carrying the signed session id
const CookieName = "session"

// Manager ties a Store to the session cookie
type Manager struct {
	store  Store            // Session records
	secret string           // HS256 key for the cookie token
	ttl    time.Duration    // Sliding idle lifetime
	secure bool             // Secure flag on the cookie
	now    func() time.Time // Clock used for expiry
}

// NewManager builds a Manager, ttl being the sliding idle lifetime
func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// SetClock replaces the time source used for expiry
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Load returns the session named by the request cookie, or a new anonymous
// session when the cookie is missing, tampered with or expired
func (m *Manager) Load(c *gin.Context) *Session {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return New()
	}
	id, err := utils.ParseSessionToken(raw, m.secret)
	if err != nil {
		return New()
	}
	s, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logrus.WithFields(logrus.Fields{
				"session_id": id,          // Session ID
				"error":      err.Error(), // Error message
			}).Warn("Session load failed")
		}
		return New()
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(c.Request.Context(), id)
		return New()
	}
	return s
}

// Save pushes the expiry forward, stores the session and refreshes the
// cookie. Call it before the response status is written
func (m *Manager) Save(c *gin.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(c.Request.Context(), s); err != nil {
		return err
	}
	token, err := utils.GenerateSessionToken(s.ID, m.secret, m.ttl)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.ttl/time.Second))
	s.dirty = false
	return nil
}

// Renew moves the session to a fresh id and drops the old record
func (m *Manager) Renew(c *gin.Context, s *Session) error {
	old := s.ID
	s.ID = New().ID
	if err := m.Save(c, s); err != nil {
		return err
	}
	return m.store.Delete(c.Request.Context(), old)
}

// setCookie replaces any session cookie already queued on the response
func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	h := c.Writer.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, CookieName+"=") {
			kept = append(kept, v) // Cookies other than ours stay
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}
