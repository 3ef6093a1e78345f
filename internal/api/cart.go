package api

import (
	"context"  // Request context for queries
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"storefront/internal/domain"     // Importing domain models
	"storefront/internal/middleware" // Buyer identity key
	"storefront/internal/session"    // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clause
)

const quantityMessage = "Quantity must be a positive whole number."

var errBadQuantity = errors.New("quantity is not a whole number")

// parseQuantity reads the quantity form field, defaulting to 1 when absent
func parseQuantity(c *gin.Context) (int, error) {
	raw, ok := c.GetPostForm("quantity")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return 1, nil // Default when not supplied
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadQuantity
	}
	return n, nil
}

// addCartItem inserts the line or adds qty to the existing one in a single
// statement, relying on the unique (buyer_id, product_id) index
func addCartItem(ctx context.Context, db *gorm.DB, buyerID, productID uint, qty int) error {
	item := domain.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: qty}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart.quantity + ?", qty),
			}),
		}).
		Create(&item).Error
}

// listCartLines joins the buyer's cart with the product table
func listCartLines(ctx context.Context, db *gorm.DB, buyerID uint) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := db.WithContext(ctx).
		Table("cart AS c").
		Select("c.cart_id, c.product_id, p.name, p.price, c.quantity, p.price * c.quantity AS total").
		Joins("JOIN products p ON p.product_id = c.product_id").
		Where("c.buyer_id = ?", buyerID).
		Order("c.cart_id").
		Scan(&lines).Error
	return lines, err
}

// findCartItem loads a cart line only if it belongs to buyerID
func findCartItem(ctx context.Context, db *gorm.DB, buyerID, cartID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := db.WithContext(ctx).Where("cart_id = ? AND buyer_id = ?", cartID, buyerID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// setCartQuantity overwrites the quantity of the buyer's line
func setCartQuantity(ctx context.Context, db *gorm.DB, buyerID, cartID uint, qty int) error {
	if _, err := findCartItem(ctx, db, buyerID, cartID); err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&domain.CartItem{}).
		Where("cart_id = ? AND buyer_id = ?", cartID, buyerID).
		Update("quantity", qty).Error
}

// deleteCartItem removes the buyer's line, returning gorm.ErrRecordNotFound
// when no line with that id belongs to the buyer
func deleteCartItem(ctx context.Context, db *gorm.DB, buyerID, cartID uint) error {
	res := db.WithContext(ctx).Where("cart_id = ? AND buyer_id = ?", cartID, buyerID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddToCartHandler adds a product to the buyer's cart
func AddToCartHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.MustGet(middleware.BuyerIDKey).(uint) // Set by BuyerOnlyMiddleware
		productID, ok := parseID(c, "id")
		if !ok {
			flashRedirect(c, sm, session.FlashDanger, "Product not found.", "/products")
			return
		}
		qty, err := parseQuantity(c)
		if err != nil || qty <= 0 {
			flashRedirect(c, sm, session.FlashDanger, quantityMessage, "/product/"+strconv.Itoa(int(productID)))
			return
		}
		ctx := c.Request.Context()
		// The product must exist before it can be carted
		var product domain.Product
		if err := db.WithContext(ctx).Select("product_id").First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				flashRedirect(c, sm, session.FlashDanger, "Product not found.", "/products")
				return
			}
			serverError(c, sm, err, "Failed to fetch product", logrus.Fields{"product_id": productID})
			return
		}
		if err := addCartItem(ctx, db, buyerID, productID, qty); err != nil {
			serverError(c, sm, err, "Add to cart failed", logrus.Fields{
				"buyer_id":   buyerID,   // Buyer ID
				"product_id": productID, // Product ID
				"quantity":   qty,       // Requested quantity
			})
			return
		}
		logrus.WithFields(logrus.Fields{
			"buyer_id":   buyerID,   // Buyer ID
			"product_id": productID, // Product ID
			"quantity":   qty,       // Added quantity
		}).Info("Added to cart")
		flashRedirect(c, sm, session.FlashSuccess, "Product added to cart!", "/cart")
	}
}

// ViewCartHandler renders the buyer's cart with line and grand totals
func ViewCartHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.MustGet(middleware.BuyerIDKey).(uint) // Set by BuyerOnlyMiddleware
		lines, err := listCartLines(c.Request.Context(), db, buyerID)
		if err != nil {
			serverError(c, sm, err, "Failed to fetch cart", logrus.Fields{"buyer_id": buyerID})
			return
		}
		render(c, sm, http.StatusOK, "cart.html", gin.H{"Title": "Cart", "Cart": domain.NewCartSummary(lines)})
	}
}

// UpdateCartHandler sets a line's quantity, removing it when the quantity is not positive
func UpdateCartHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.MustGet(middleware.BuyerIDKey).(uint) // Set by BuyerOnlyMiddleware
		cartID, ok := parseID(c, "id")
		if !ok {
			flashRedirect(c, sm, session.FlashDanger, "Cart item not found.", "/cart")
			return
		}
		qty, err := parseQuantity(c)
		if err != nil {
			flashRedirect(c, sm, session.FlashDanger, quantityMessage, "/cart")
			return
		}
		ctx := c.Request.Context()
		category, message := session.FlashSuccess, "Cart updated!"
		if qty > 0 {
			err = setCartQuantity(ctx, db, buyerID, cartID, qty)
		} else {
			err = deleteCartItem(ctx, db, buyerID, cartID)
			category, message = session.FlashInfo, "Item removed from cart!"
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			flashRedirect(c, sm, session.FlashDanger, "Cart item not found.", "/cart")
			return
		}
		if err != nil {
			serverError(c, sm, err, "Cart update failed", logrus.Fields{
				"buyer_id": buyerID, // Buyer ID
				"cart_id":  cartID,  // Cart line ID
				"quantity": qty,     // Requested quantity
			})
			return
		}
		flashRedirect(c, sm, category, message, "/cart")
	}
}

// RemoveFromCartHandler deletes a line from the buyer's cart
func RemoveFromCartHandler(db *gorm.DB, sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerID := c.MustGet(middleware.BuyerIDKey).(uint) // Set by BuyerOnlyMiddleware
		cartID, ok := parseID(c, "id")
		if !ok {
			flashRedirect(c, sm, session.FlashDanger, "Cart item not found.", "/cart")
			return
		}
		err := deleteCartItem(c.Request.Context(), db, buyerID, cartID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			flashRedirect(c, sm, session.FlashDanger, "Cart item not found.", "/cart")
			return
		}
		if err != nil {
			serverError(c, sm, err, "Cart removal failed", logrus.Fields{"buyer_id": buyerID, "cart_id": cartID})
			return
		}
		flashRedirect(c, sm, session.FlashInfo, "Item removed from cart!", "/cart")
	}
}
