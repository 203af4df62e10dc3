package api

import (
	"fmt"           // Message formatting
	"net/http"      // HTTP status codes
	"os"            // Upload directory creation
	"path/filepath" // Upload path handling
	"strings"       // String manipulation
	"time"          // OTP expiry handling

	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Unique filenames for uploads
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`     // Display name must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for password change confirmation
type UpdatePasswordRequest struct {
	OTP         string `json:"otp" binding:"required"`         // One-time code must be provided
	NewPassword string `json:"newPassword" binding:"required"` // New password must be provided
}

// passwordPolicyMessage mirrors the policy: one uppercase, one lowercase,
// letters/digits/underscore/ampersand only
const passwordPolicyMessage = "Password must contain at least one uppercase letter, one lowercase letter, and allowed characters are letters, numbers, _ and &"

// authResponse is the profile + token shape shared by register, login and
// the profile/password update endpoints
func authResponse(user *domain.User, token string) gin.H {
	return gin.H{
		"id":     user.ID,     // User ID
		"name":   user.Name,   // Display name
		"email":  user.Email,  // Email address
		"mobile": user.Mobile, // Mobile number
		"photo":  user.Photo,  // Profile photo path
		"token":  token,       // JWT session token
	}
}

// RegisterHandler creates a user, seeds the default categories and
// returns an authenticated session
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add all fields"})
			return
		}
		// Validate the password against the policy
		if !utils.IsValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": passwordPolicyMessage})
			return
		}
		// Store emails lowercase to keep uniqueness case-insensitive
		email := strings.ToLower(strings.TrimSpace(req.Email))
		// Check if a user already holds this email
		var existing domain.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		// Hash the password before storage
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		user := domain.User{Name: req.Name, Email: email, Password: string(hash)}
		// Create the user and the six default categories in one transaction
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err // Return error to rollback
			}
			categories := domain.DefaultCategories(user.ID)
			if err := tx.Create(&categories).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,
				"error": err.Error(),
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Invalid user data"})
			return
		}
		// Issue a session token for the new user
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User registered")
		c.JSON(http.StatusCreated, authResponse(&user, token))
	}
}

// LoginHandler authenticates a user and returns a session token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add all fields"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, authResponse(&user, token))
	}
}

// MeHandler returns the authenticated user's public profile fields
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"mobile": user.Mobile,
			"photo":  user.Photo,
		})
	}
}

// UpdateDetailsHandler updates name/mobile/email and an optional profile
// photo from a multipart form, then reissues a session token
func UpdateDetailsHandler(db *gorm.DB, jwtSecret, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Name and mobile are applied unconditionally
		user.Name = c.PostForm("name")
		user.Mobile = c.PostForm("mobile")
		// Email only changes after a conflict check against other users
		if email := strings.ToLower(strings.TrimSpace(c.PostForm("email"))); email != "" && email != user.Email {
			var existing domain.User
			if err := db.Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
				return
			}
			user.Email = email
		}
		// Store the uploaded photo under a generated filename, keep the
		// relative path on the user record
		if file, err := c.FormFile("photo"); err == nil {
			if err := os.MkdirAll(uploadDir, 0o755); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store photo"})
				return
			}
			filename := uuid.NewString() + filepath.Ext(file.Filename)
			if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store photo"})
				return
			}
			user.Photo = "uploads/" + filename
		}
		if err := db.Save(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Profile update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, authResponse(&user, token))
	}
}

// SendVerificationHandler issues a one-time code with a 10-minute expiry
// and dispatches it by email. A failed dispatch clears the stored code.
func SendVerificationHandler(db *gorm.DB, mail Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		code, err := utils.GenerateOTP()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate verification code"})
			return
		}
		expiry := time.Now().Add(10 * time.Minute)
		user.OTPCode = code
		user.OTPExpiresAt = &expiry
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store verification code"})
			return
		}
		message := fmt.Sprintf("Your verification code is: %s\n\nThis code expires in 10 minutes.", code)
		if err := mail.Send(user.Email, "Password Change Verification Code", message); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Verification email failed")
			// Roll back the stored code so a retry starts clean
			user.OTPCode = ""
			user.OTPExpiresAt = nil
			_ = db.Save(&user).Error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Email could not be sent"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to email"})
	}
}

// UpdatePasswordHandler replaces the password once the one-time code
// matches and has not expired, then reissues a session token
func UpdatePasswordHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add all fields"})
			return
		}
		// The new password follows the same policy as registration
		if !utils.IsValidPassword(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"message": passwordPolicyMessage})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// The stored code must match exactly and still be valid
		if user.OTPCode == "" || user.OTPCode != req.OTP ||
			user.OTPExpiresAt == nil || !time.Now().Before(*user.OTPExpiresAt) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		// Replace the hash and clear the code so it cannot be reused
		user.Password = string(hash)
		user.OTPCode = ""
		user.OTPExpiresAt = nil
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update password"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password changed")
		c.JSON(http.StatusOK, authResponse(&user, token))
	}
}

// DeleteAccountHandler removes every record owned by the user, then the
// user itself, in one transaction
func DeleteAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Cascade across all owned collections atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", userID).Delete(&domain.Expense{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("user_id = ?", userID).Delete(&domain.Income{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("user_id = ?", userID).Delete(&domain.Category{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Delete(&domain.User{}, userID).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Account deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		// Drop any cached entries the user still had
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateUserCaches(c.Request.Context(), rdb, userID)
		}
		logrus.WithFields(logrus.Fields{"user_id": userID}).Info("Account deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}
