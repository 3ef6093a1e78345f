package domain

import "time"

// Roles a user can hold
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User Model
type User struct {
	ID        uint      `gorm:"column:user_id;primaryKey"`            // Primary key
	Username  string    `gorm:"size:100;not null"`                    // Display name, not unique
	Email     string    `gorm:"size:255;uniqueIndex;not null"`        // Login identifier
	Password  string    `gorm:"size:255;not null"`                    // Hashed password
	Role      string    `gorm:"size:20;not null;default:buyer;index"` // Role: buyer or seller
	CreatedAt time.Time `gorm:"autoCreateTime"`                       // Signup time
}

// TableName keeps the table name used by the existing database
func (User) TableName() string { return "users" }
