package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	appdb "storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testApp struct {
	t        *testing.T
	db       *gorm.DB
	sessions *session.Manager
	router   *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	gdb, err := appdb.Open(&config.Config{DBDriver: "sqlite", DBPath: filepath.Join(dir, "shop.db")})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))

	store, err := session.NewFileStore(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	sm := session.NewManager(store, "test-secret", 30*time.Minute, false)

	r := NewRouter(Deps{DB: gdb, Sessions: sm, AuthLimiter: middleware.PerMinute(1000)})
	return &testApp{t: t, db: gdb, sessions: sm, router: r}
}

// client is a browser with its own cookie jar
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

func (c *client) signup(username, email, password string) *httptest.ResponseRecorder {
	return c.post("/signup", url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	return c.post("/login", url.Values{"email": {email}, "password": {password}})
}

func (a *testApp) seedProduct(name string, price float64) domain.Product {
	a.t.Helper()
	p := domain.Product{Name: name, Price: price, Description: name + " description"}
	require.NoError(a.t, a.db.Create(&p).Error)
	return p
}

func (a *testApp) seedUser(username, email, password, role string) domain.User {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(a.t, err)
	u := domain.User{Username: username, Email: email, Password: string(hash), Role: role}
	require.NoError(a.t, a.db.Create(&u).Error)
	return u
}

func (a *testApp) userCount() int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.Model(&domain.User{}).Count(&n).Error)
	return n
}

func (a *testApp) cartItems(buyerID uint) []domain.CartItem {
	a.t.Helper()
	var items []domain.CartItem
	require.NoError(a.t, a.db.Where("buyer_id = ?", buyerID).Order("cart_id").Find(&items).Error)
	return items
}

func (a *testApp) userByEmail(email string) domain.User {
	a.t.Helper()
	var u domain.User
	require.NoError(a.t, a.db.Where("email = ?", email).First(&u).Error)
	return u
}
