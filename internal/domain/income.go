package domain

import "time"

// DefaultIncomeCategory is the free-text category applied to income
// entries that do not name one. Income categories are plain strings,
// independent of the Category table used by expenses.
const DefaultIncomeCategory = "Income"

// Income Model
type Income struct {
	ID          uint      `gorm:"primaryKey" json:"id"`       // Primary key
	UserID      uint      `gorm:"index;not null" json:"user"` // Owning user
	Source      string    `gorm:"not null" json:"source"`     // Income source, e.g. Salary
	Amount      float64   `gorm:"not null" json:"amount"`     // Income amount
	Category    string    `json:"category"`                   // Free-text category label
	Description string    `json:"description"`                // Optional free text
	Date        time.Time `json:"date"`                       // Income date, defaults to creation time
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
