package domain

import "time"

// FallbackCategoryName labels an expense whose category reference
// cannot be resolved at creation time.
const FallbackCategoryName = "Uncategorized"

// Expense Model
type Expense struct {
	ID     uint    `gorm:"primaryKey" json:"id"`       // Primary key
	UserID uint    `gorm:"index;not null" json:"user"` // Owning user
	Title  string  `gorm:"not null" json:"title"`      // Expense title
	Amount float64 `gorm:"not null" json:"amount"`     // Expense amount
	// CategoryID is a plain column, not a foreign key: the referenced
	// category may be deleted and the reference left dangling.
	CategoryID   *uint     `json:"category"`                    // Optional category reference
	CategoryName string    `gorm:"not null" json:"categoryName"` // Denormalized snapshot of the category name
	Description  string    `json:"description"`                 // Optional free text
	Date         time.Time `json:"date"`                        // Expense date, defaults to creation time
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
