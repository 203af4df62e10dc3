package api

import (
	"net/http" // HTTP status codes
	"time"     // Default expense date

	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for expense creation
type CreateExpenseRequest struct {
	Title        string     `json:"title" binding:"required"`    // Title must be provided
	Amount       float64    `json:"amount" binding:"required"`   // Amount must be provided
	Category     uint       `json:"category" binding:"required"` // Category reference must be provided
	CategoryName string     `json:"categoryName"`                // Optional explicit snapshot
	Description  string     `json:"description"`                 // Optional free text
	Date         *time.Time `json:"date"`                        // Optional date, defaults to now
}

// Request struct for partial expense updates; nil fields are untouched
type UpdateExpenseRequest struct {
	Title        *string    `json:"title"`
	Amount       *float64   `json:"amount"`
	Category     *uint      `json:"category"`
	CategoryName *string    `json:"categoryName"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
}

// ExpenseStatsResponse aggregates a user's expenses
type ExpenseStatsResponse struct {
	TotalAmount   float64            `json:"totalAmount"`   // Sum of all amounts
	CategoryStats map[string]float64 `json:"categoryStats"` // Sum per denormalized category name
	Count         int                `json:"count"`         // Number of expenses
}

// resolveCategoryName snapshots the category's current name. An
// unresolved reference yields the fallback label so the expense stays
// readable after the category is gone.
func resolveCategoryName(db *gorm.DB, categoryID uint) string {
	var category domain.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		return domain.FallbackCategoryName
	}
	return category.Name
}

// ListExpensesHandler returns the caller's expenses, newest first
func ListExpensesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.ExpenseListKey(userID)
		// Serve from cache when available
		if rdb != nil {
			var cached []domain.Expense
			if hit, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		var expenses []domain.Expense
		if err := db.Where("user_id = ?", userID).Order("date DESC").Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load expenses"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, expenses, utils.CacheTTL)
		}
		c.JSON(http.StatusOK, expenses)
	}
}

// CreateExpenseHandler records a new expense for the caller
func CreateExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add title, amount and category"})
			return
		}
		// Snapshot the category name unless the client supplied one
		categoryName := req.CategoryName
		if categoryName == "" {
			categoryName = resolveCategoryName(db, req.Category)
		}
		date := time.Now()
		if req.Date != nil {
			date = *req.Date
		}
		categoryID := req.Category
		expense := domain.Expense{
			UserID:       userID,
			Title:        req.Title,
			Amount:       req.Amount,
			CategoryID:   &categoryID,
			CategoryName: categoryName,
			Description:  req.Description,
			Date:         date,
		}
		if err := db.Create(&expense).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Expense creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create expense"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateExpenseCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusCreated, expense)
	}
}

// UpdateExpenseHandler applies a partial update to an owned expense
func UpdateExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var expense domain.Expense
		if err := db.First(&expense, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
			return
		}
		if expense.UserID != userID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}
		var req UpdateExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Apply only the supplied fields
		if req.Title != nil {
			expense.Title = *req.Title
		}
		if req.Amount != nil {
			expense.Amount = *req.Amount
		}
		if req.CategoryName != nil {
			expense.CategoryName = *req.CategoryName
		}
		if req.Description != nil {
			expense.Description = *req.Description
		}
		if req.Date != nil {
			expense.Date = *req.Date
		}
		if req.Category != nil {
			expense.CategoryID = req.Category
			// Re-resolve the snapshot only when the new category exists;
			// a failed lookup silently keeps the prior name
			var category domain.Category
			if err := db.First(&category, *req.Category).Error; err == nil {
				expense.CategoryName = category.Name
			}
		}
		if err := db.Save(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update expense"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateExpenseCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusOK, expense)
	}
}

// DeleteExpenseHandler removes an owned expense
func DeleteExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var expense domain.Expense
		if err := db.First(&expense, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
			return
		}
		if expense.UserID != userID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}
		if err := db.Delete(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete expense"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			utils.InvalidateExpenseCache(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusOK, gin.H{"id": expense.ID})
	}
}

// ExpenseStatsHandler computes totals over the caller's expenses,
// grouped by the denormalized category name
func ExpenseStatsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.ExpenseStatsKey(userID)
		if rdb != nil {
			var cached ExpenseStatsResponse
			if hit, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		var expenses []domain.Expense
		if err := db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load expenses"})
			return
		}
		stats := ExpenseStatsResponse{
			CategoryStats: make(map[string]float64),
			Count:         len(expenses),
		}
		for _, expense := range expenses {
			stats.TotalAmount += expense.Amount
			stats.CategoryStats[expense.CategoryName] += expense.Amount
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, stats, utils.CacheTTL)
		}
		c.JSON(http.StatusOK, stats)
	}
}
