package domain

import "time"

// Category kinds
const (
	CategoryTypeDefault = "default" // Seeded alongside registration
	CategoryTypeCustom  = "custom"  // Created by the user
)

// Category Model
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`     // Primary key
	UserID    uint      `gorm:"index;not null" json:"user"` // Owning user
	Name      string    `gorm:"not null" json:"name"`     // Display name
	Icon      string    `json:"icon"`                     // Icon identifier, defaults to "circle"
	Color     string    `json:"color"`                    // Hex color, defaults to "#000000"
	Type      string    `json:"type"`                     // default or custom
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultCategories returns the six categories seeded for a new user.
func DefaultCategories(userID uint) []Category {
	return []Category{
		{UserID: userID, Name: "Food", Icon: "fast-food", Color: "#FF6384", Type: CategoryTypeDefault},
		{UserID: userID, Name: "Transport", Icon: "car", Color: "#36A2EB", Type: CategoryTypeDefault},
		{UserID: userID, Name: "Housing", Icon: "home", Color: "#FFCE56", Type: CategoryTypeDefault},
		{UserID: userID, Name: "Utilities", Icon: "flash", Color: "#4BC0C0", Type: CategoryTypeDefault},
		{UserID: userID, Name: "Entertainment", Icon: "game-controller", Color: "#9966FF", Type: CategoryTypeDefault},
		{UserID: userID, Name: "Health", Icon: "medkit", Color: "#FF9F40", Type: CategoryTypeDefault},
	}
}
