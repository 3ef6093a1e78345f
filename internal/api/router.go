package api

import (
	"storefront/internal/middleware" // Custom package for middleware
	"storefront/internal/session"    // Server-side sessions
	"storefront/internal/views"      // Embedded templates

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Deps are the shared resources handed to every handler
type Deps struct {
	DB          *gorm.DB                // Connection pool
	Sessions    *session.Manager        // Session cookie and store
	AuthLimiter *middleware.RateLimiter // Throttles signup and login attempts
}

// NewRouter wires middleware, templates and routes
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default() // Gin router instance with logger and recovery
	r.SetHTMLTemplate(views.Templates())
	r.Use(middleware.SecurityHeaders(), middleware.SessionMiddleware(d.Sessions))

	db, sm := d.DB, d.Sessions
	limit := middleware.RateLimitMiddleware(d.AuthLimiter)

	// Public routes
	r.GET("/", HomeHandler())
	r.GET("/signup", SignupFormHandler(sm))
	r.POST("/signup", limit, SignupHandler(db, sm))
	r.GET("/login", LoginFormHandler(sm))
	r.POST("/login", limit, LoginHandler(db, sm))
	r.GET("/logout", LogoutHandler(sm))
	r.GET("/products", ListProductsHandler(db, sm))
	r.GET("/product/:id", ProductDetailHandler(db, sm))

	// Buyer routes
	r.GET("/buyer/dashboard", middleware.BuyerOnlyMiddleware(sm, ""), DashboardHandler(sm))
	r.POST("/add_to_cart/:id", middleware.BuyerOnlyMiddleware(sm, "Please login first to add items to your cart."), AddToCartHandler(db, sm))
	r.GET("/cart", middleware.BuyerOnlyMiddleware(sm, "Please login first to view your cart."), ViewCartHandler(db, sm))
	manage := middleware.BuyerOnlyMiddleware(sm, "Please login first to manage your cart.")
	r.GET("/remove_from_cart/:id", manage, RemoveFromCartHandler(db, sm))
	r.POST("/update_cart/:id", manage, UpdateCartHandler(db, sm))

	return r
}
