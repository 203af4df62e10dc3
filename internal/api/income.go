package api

import (
	"net/http" // HTTP status codes
	"time"     // Default income date

	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for income creation. Category is a free-text label,
// not a reference to the category table.
type CreateIncomeRequest struct {
	Source      string     `json:"source" binding:"required"` // Source must be provided
	Amount      float64    `json:"amount" binding:"required"` // Amount must be provided
	Category    string     `json:"category"`                  // Optional label, defaults to "Income"
	Description string     `json:"description"`               // Optional free text
	Date        *time.Time `json:"date"`                      // Optional date, defaults to now
}

// Request struct for partial income updates; nil fields are untouched
type UpdateIncomeRequest struct {
	Source      *string    `json:"source"`
	Amount      *float64   `json:"amount"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
}

// IncomeStatsResponse aggregates a user's income entries
type IncomeStatsResponse struct {
	TotalAmount float64 `json:"totalAmount"` // Sum of all amounts
	Count       int     `json:"count"`       // Number of entries
}

// ListIncomesHandler returns the caller's income entries, newest first
func ListIncomesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.IncomeListKey(userID)
		if rdb != nil {
			var cached []domain.Income
			if hit, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		var incomes []domain.Income
		if err := db.Where("user_id = ?", userID).Order("date DESC").Find(&incomes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load income entries"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, incomes, utils.CacheTTL)
		}
		c.JSON(http.StatusOK, incomes)
	}
}

// CreateIncomeHandler records a new income entry for the caller
func CreateIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateIncomeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add source and amount"})
			return
		}
		if req.Category == "" {
			req.Category = domain.DefaultIncomeCategory
		}
		date := time.Now()
		if req.Date != nil {
			date = *req.Date
		}
		income := domain.Income{
			UserID:      userID,
			Source:      req.Source,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        date,
		}
		if err := db.Create(&income).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Income creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create income entry"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateIncomeCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusCreated, income)
	}
}

// UpdateIncomeHandler applies a partial update to an owned income entry
func UpdateIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var income domain.Income
		if err := db.First(&income, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Income entry not found"})
			return
		}
		if income.UserID != userID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}
		var req UpdateIncomeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Apply only the supplied fields
		if req.Source != nil {
			income.Source = *req.Source
		}
		if req.Amount != nil {
			income.Amount = *req.Amount
		}
		if req.Category != nil {
			income.Category = *req.Category
		}
		if req.Description != nil {
			income.Description = *req.Description
		}
		if req.Date != nil {
			income.Date = *req.Date
		}
		if err := db.Save(&income).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update income entry"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateIncomeCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusOK, income)
	}
}

// DeleteIncomeHandler removes an owned income entry
func DeleteIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var income domain.Income
		if err := db.First(&income, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Income entry not found"})
			return
		}
		if income.UserID != userID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}
		if err := db.Delete(&income).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete income entry"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateIncomeCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusOK, gin.H{"id": income.ID})
	}
}

// IncomeStatsHandler computes totals over the caller's income entries.
// No per-category breakdown here; clients derive that from the raw list.
func IncomeStatsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.IncomeStatsKey(userID)
		if rdb != nil {
			var cached IncomeStatsResponse
			if hit, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		var incomes []domain.Income
		if err := db.Where("user_id = ?", userID).Find(&incomes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load income entries"})
			return
		}
		stats := IncomeStatsResponse{Count: len(incomes)}
		for _, income := range incomes {
			stats.TotalAmount += income.Amount
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, stats, utils.CacheTTL)
		}
		c.JSON(http.StatusOK, stats)
	}
}
