package api

import (
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for category creation
type CreateCategoryRequest struct {
	Name  string `json:"name"`  // Display name, required
	Icon  string `json:"icon"`  // Optional icon identifier
	Color string `json:"color"` // Optional hex color
}

// ListCategoriesHandler returns all of the caller's categories
func ListCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.CategoryListKey(userID)
		// Serve from cache when available
		if rdb != nil {
			var cached []domain.Category
			if hit, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
		var categories []domain.Category
		if err := db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load categories"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, categories, utils.CacheTTL)
		}
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategoryHandler creates a custom category for the caller
func CreateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please add a category name"})
			return
		}
		// Apply defaults for omitted metadata
		if req.Icon == "" {
			req.Icon = "circle"
		}
		if req.Color == "" {
			req.Color = "#000000"
		}
		category := domain.Category{
			UserID: userID,
			Name:   req.Name,
			Icon:   req.Icon,
			Color:  req.Color,
			// User-created categories are always custom
			Type: domain.CategoryTypeCustom,
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
			return
		}
		// Invalidate the cached category list
		if rdb := contextRedis(c); rdb != nil {
			_ = utils.DeleteCache(c.Request.Context(), rdb, utils.CategoryListKey(userID))
		}
		c.JSON(http.StatusCreated, category)
	}
}

// DeleteCategoryHandler deletes a category owned by the caller. Expenses
// referencing it are left untouched: they keep their denormalized
// categoryName and their reference dangles.
func DeleteCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var category domain.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		// Ownership check: existing but foreign records are an
		// authorization failure, not a not-found
		if category.UserID != userID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
			return
		}
		if rdb := contextRedis(c); rdb != nil {
			_ = utils.DeleteCache(c.Request.Context(), rdb, utils.CategoryListKey(userID))
		}
		c.JSON(http.StatusOK, gin.H{"id": category.ID})
	}
}
