package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Log timestamps

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// maxPasswordBytes is the longest input bcrypt will hash
const maxPasswordBytes = 72

// SignupRequest is the signup form
type SignupRequest struct {
	Username        string `form:"username" binding:"required"`         // Display name
	Email           string `form:"email" binding:"required"`            // Login identifier
	Password        string `form:"password" binding:"required"`         // Plain text password
	ConfirmPassword string `form:"confirm_password" binding:"required"` // Must equal Password
}

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `form:"email"`    // Login identifier
	Password string `form:"password"` // Plain text password
}

// normalizeEmail makes lookups case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignupFormHandler renders the signup form
func SignupFormHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, sm, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
	}
}

// SignupHandler creates a buyer account and logs it in
func SignupHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			flashRedirect(c, sm, session.FlashDanger, "All fields are required.", "/signup")
			return
		}
		// Confirm password match
		if req.Password != req.ConfirmPassword {
			flashRedirect(c, sm, session.FlashDanger, "Passwords do not match.", "/signup")
			return
		}
		if len(req.Password) > maxPasswordBytes {
			flashRedirect(c, sm, session.FlashDanger, "Password must be at most 72 bytes.", "/signup")
			return
		}
		email := normalizeEmail(req.Email)
		ctx := c.Request.Context()
		// Check if email already exists
		var existing domain.User
		err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		if err == nil {
			flashRedirect(c, sm, session.FlashDanger, "Email already registered. Please log in.", "/login")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			serverError(c, sm, err, "Signup lookup failed", logrus.Fields{"email": email})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			serverError(c, sm, err, "Failed to hash password", nil)
			return
		}
		user := domain.User{
			Username: strings.TrimSpace(req.Username), // Display name
			Email:    email,                           // Lowercased email
			Password: string(hash),                    // Hashed password
			Role:     domain.RoleBuyer,                // Signup only creates buyers
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			// A concurrent signup won the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				flashRedirect(c, sm, session.FlashDanger, "Email already registered. Please log in.", "/login")
				return
			}
			serverError(c, sm, err, "Failed to create user", logrus.Fields{"email": email})
			return
		}
		// Auto-login after signup
		s := session.FromContext(c)
		s.SetUser(user.ID, user.Username, user.Role)
		s.AddFlash(session.FlashSuccess, "Account created successfully! Welcome to Mode S7vn.")
		if err := sm.Renew(c, s); err != nil {
			serverError(c, sm, err, "Failed to start session", logrus.Fields{"user_id": user.ID})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // New user ID
			"type":      "signup",                        // Event type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("User registered")
		redirect(c, sm, "/buyer/dashboard")
	}
}

// LoginFormHandler renders the login form
func LoginFormHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, sm, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Email": ""})
	}
}

// LoginHandler authenticates a buyer by email and password
func LoginHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		_ = c.ShouldBind(&req) // Missing fields fail the password check below
		email := normalizeEmail(req.Email)
		s := session.FromContext(c)

		var user domain.User // Fetch buyer from database
		err := db.WithContext(c.Request.Context()).
			Where("email = ? AND role = ?", email, domain.RoleBuyer).
			First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			serverError(c, sm, err, "Login lookup failed", logrus.Fields{"email": email})
			return
		}
		// Same answer for unknown email and wrong password
		if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			logrus.WithField("email", email).Info("Login rejected")
			s.AddFlash(session.FlashDanger, "Invalid credentials. Try again.")
			render(c, sm, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Email": email})
			return
		}
		s.SetUser(user.ID, user.Username, user.Role)
		s.AddFlash(session.FlashSuccess, "Login successful!")
		// Rotate the session id on login
		if err := sm.Renew(c, s); err != nil {
			serverError(c, sm, err, "Failed to start session", logrus.Fields{"user_id": user.ID})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // User ID
			"type":      "login",                         // Event type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("User logged in")
		redirect(c, sm, "/buyer/dashboard")
	}
}

// LogoutHandler drops the identity and retires the session id
func LogoutHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		userID := s.UserID
		s.Clear()
		s.AddFlash(session.FlashInfo, "You have been logged out.")
		if err := sm.Renew(c, s); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Former owner
				"error":   err.Error(), // Error message
			}).Error("Failed to retire session")
		}
		c.Redirect(http.StatusFound, "/login")
	}
}

// DashboardHandler greets the logged in buyer
func DashboardHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, sm, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard"})
	}
}

// HomeHandler returns the static welcome text
func HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to Mode S7vn E-commerce!")
	}
}
