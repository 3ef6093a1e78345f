package domain

// CartItem Model, one row per (buyer, product)
type CartItem struct {
	ID        uint    `gorm:"column:cart_id;primaryKey"`                                       // Primary key
	BuyerID   uint    `gorm:"not null;uniqueIndex:idx_cart_buyer_product"`                     // Foreign key to User
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_buyer_product;index"`               // Foreign key to Product
	Quantity  int     `gorm:"not null;default:1"`                                              // Always positive
	Buyer     User    `gorm:"foreignKey:BuyerID;references:ID;constraint:OnDelete:CASCADE;"`   // Owning buyer
	Product   Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE;"` // Product in the cart
}

// TableName keeps the singular table name used by the existing database
func (CartItem) TableName() string { return "cart" }

// CartLine is one row of the rendered cart
type CartLine struct {
	CartID    uint    `gorm:"column:cart_id"`
	ProductID uint    `gorm:"column:product_id"`
	Name      string  `gorm:"column:name"`
	Price     float64 `gorm:"column:price"`
	Quantity  int     `gorm:"column:quantity"`
	Total     float64 `gorm:"column:total"` // Price * Quantity
}

// CartSummary is the full cart with its grand total
type CartSummary struct {
	Lines []CartLine
	Total float64
}

// NewCartSummary sums the line totals
func NewCartSummary(lines []CartLine) CartSummary {
	var total float64
	for _, l := range lines {
		total += l.Total
	}
	return CartSummary{Lines: lines, Total: total}
}

// ItemCount is the number of units across all lines
func (s CartSummary) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}
