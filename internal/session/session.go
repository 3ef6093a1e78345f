package session

import (
	"context" // Context for store operations
	"errors"  // Sentinel errors
	"time"    // Expiry timestamps

	"github.com/google/uuid" // Random session ids
)

// ErrNotFound is returned by a Store for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Flash categories, also used as CSS classes by the templates
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"` // success, danger or info
	Message  string `json:"message"`  // Text shown to the visitor
}

// Session is the server-side record behind the session cookie
type Session struct {
	ID        string    `json:"id"`                 // Random uuid
	UserID    uint      `json:"user_id,omitempty"`  // Logged in user, 0 when anonymous
	Username  string    `json:"username,omitempty"` // Display name for the nav bar
	Role      string    `json:"role,omitempty"`     // buyer or seller
	Flashes   []Flash   `json:"flashes,omitempty"`  // Pending messages
	ExpiresAt time.Time `json:"expires_at"`         // End of the idle window

	dirty bool // Changed since load
}

// New returns an empty anonymous session with a fresh id
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Authenticated reports whether a user is logged in
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// HasRole reports whether the logged in user holds role
func (s *Session) HasRole(role string) bool {
	return s.Authenticated() && s.Role == role
}

// SetUser records the logged in identity
func (s *Session) SetUser(userID uint, username, role string) {
	s.UserID = userID
	s.Username = username
	s.Role = role
	s.dirty = true
}

// Clear drops the identity and any pending flashes
func (s *Session) Clear() {
	s.UserID = 0
	s.Username = ""
	s.Role = ""
	s.Flashes = nil
	s.dirty = true
}

// AddFlash queues a message for the next rendered page
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns and removes all queued messages
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

func (s *Session) Dirty() bool {
	return s.dirty
}

// Expired reports whether the idle window has passed
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Get returns ErrNotFound for ids that are
// unknown or whose ExpiresAt has passed
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// validID accepts only ids shaped like the ones New mints
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
