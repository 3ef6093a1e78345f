package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	require.NoError(t, err)
	return session.NewManager(store, "secret", 30*time.Minute, false)
}

func TestBuyerOnlyMiddleware_RedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	r := gin.New()
	r.Use(SessionMiddleware(m))
	r.GET("/cart", BuyerOnlyMiddleware(m, "Please login first."), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	// The flash needs a session to live in
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestBuyerOnlyMiddleware_NoFlashNoCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	r := gin.New()
	r.Use(SessionMiddleware(m))
	r.GET("/buyer/dashboard", BuyerOnlyMiddleware(m, ""), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buyer/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestBuyerOnlyMiddleware_SetsBuyerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	r := gin.New()
	r.Use(SessionMiddleware(m))
	r.GET("/login-as", func(c *gin.Context) {
		s := session.FromContext(c)
		s.SetUser(42, "amal", "buyer")
		require.NoError(t, m.Save(c, s))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", BuyerOnlyMiddleware(m, ""), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.MustGet(BuyerIDKey).(uint))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "42", w2.Body.String())
	// Sliding expiry re-issues the cookie
	assert.NotEmpty(t, w2.Result().Cookies())
}

func TestBuyerOnlyMiddleware_RejectsSeller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		s := session.New()
		s.SetUser(9, "sam", "seller")
		c.Set(session.ContextKey, s)
	})
	r.GET("/cart", BuyerOnlyMiddleware(m, ""), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(PerMinute(2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SweepsIdleEntries(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Millisecond)
	rl.GetLimiter("a")
	time.Sleep(5 * time.Millisecond)
	rl.GetLimiter("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.ips, "a")
	assert.Contains(t, rl.ips, "b")
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "hi") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestSessionMiddleware_SlidesExpiry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	base := time.Now()
	clock := base
	m.SetClock(func() time.Time { return clock })

	r := gin.New()
	r.Use(SessionMiddleware(m))
	r.GET("/login-as", func(c *gin.Context) {
		s := session.FromContext(c)
		s.SetUser(42, "amal", "buyer")
		require.NoError(t, m.Save(c, s))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", BuyerOnlyMiddleware(m, ""), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", session.FromContext(c).ExpiresAt.Unix())
	})
	get := func(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	login := get("/login-as", nil)
	require.Equal(t, http.StatusNoContent, login.Code)
	cookies := login.Result().Cookies()

	// Twenty minutes later a plain GET pushes the deadline out
	clock = base.Add(20 * time.Minute)
	w := get("/me", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, strconv.FormatInt(base.Add(50*time.Minute).Unix(), 10), w.Body.String())

	// Past the original deadline the session is still live
	clock = base.Add(40 * time.Minute)
	w = get("/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	// An idle gap longer than the window ends it
	clock = base.Add(71 * time.Minute)
	w = get("/me", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
}
