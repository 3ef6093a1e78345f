package domain

// Product Model, populated outside this application
type Product struct {
	ID          uint    `gorm:"column:product_id;primaryKey"`          // Primary key
	Name        string  `gorm:"size:255;not null"`                     // Product name
	Description string  `gorm:"type:text"`                             // Optional long description
	Price       float64 `gorm:"type:decimal(10,2);not null;default:0"` // Unit price, stored as exact cents
}

// TableName keeps the table name used by the existing database
func (Product) TableName() string { return "products" }
