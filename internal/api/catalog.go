package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// ListProductsHandler renders every product
func ListProductsHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []domain.Product // Slice to hold products
		if err := db.WithContext(c.Request.Context()).Order("product_id").Find(&products).Error; err != nil {
			serverError(c, sm, err, "Failed to fetch products", nil)
			return
		}
		render(c, sm, http.StatusOK, "products.html", gin.H{"Title": "Products", "Products": products})
	}
}

// ProductDetailHandler renders one product
func ProductDetailHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			notFound(c, sm, "Product not found.")
			return
		}
		var product domain.Product // Query product by ID
		if err := db.WithContext(c.Request.Context()).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				notFound(c, sm, "Product not found.")
				return
			}
			serverError(c, sm, err, "Failed to fetch product", logrus.Fields{"product_id": id})
			return
		}
		render(c, sm, http.StatusOK, "product_detail.html", gin.H{"Title": product.Name, "Product": product})
	}
}
