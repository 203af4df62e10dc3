package domain

import "time"

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`         // Primary key
	Name         string     `gorm:"not null" json:"name"`         // Display name
	Email        string     `gorm:"unique;not null" json:"email"` // Unique email address
	Password     string     `gorm:"not null" json:"-"`            // Hashed password, never serialized
	Mobile       string     `json:"mobile"`                       // Optional mobile number
	Photo        string     `json:"photo"`                        // Relative path of the uploaded profile photo
	OTPCode      string     `gorm:"column:otp_code" json:"-"`       // One-time code for password changes
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at" json:"-"` // Expiry of the one-time code
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
