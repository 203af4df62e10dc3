package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"expense_tracker/internal/api"        // Custom package for API handlers
	"expense_tracker/internal/config"     // Custom package for configuration
	"expense_tracker/internal/mailer"     // Custom package for email dispatch
	"expense_tracker/internal/middleware" // Custom package for middleware

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Mailer for one-time-code dispatch
	mail := mailer.New(cfg)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Uploaded profile photos are served statically
	r.Static("/uploads", cfg.UploadDir)

	// Public auth routes
	r.POST("/api/auth/register", api.RegisterHandler(db, cfg.JWTSecret)) // Registration endpoint
	r.POST("/api/auth/login", api.LoginHandler(db, cfg.JWTSecret))       // Login endpoint

	// Injects the Redis client so mutation handlers can invalidate caches
	withRedis := func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	}

	// Protected auth routes (profile, password reset, account deletion)
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), withRedis)
	authGroup.GET("/me", api.MeHandler(db))                                                  // Current profile endpoint
	authGroup.PUT("/updatedetails", api.UpdateDetailsHandler(db, cfg.JWTSecret, cfg.UploadDir)) // Profile update endpoint
	authGroup.POST("/send-verification", api.SendVerificationHandler(db, mail))              // One-time-code issuance endpoint
	authGroup.PUT("/updatepassword", api.UpdatePasswordHandler(db, cfg.JWTSecret))           // Password change endpoint
	authGroup.DELETE("/deleteaccount", api.DeleteAccountHandler(db))                         // Account deletion endpoint

	// Category routes (protected by JWT)
	categoryGroup := r.Group("/api/categories")
	categoryGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), withRedis)
	categoryGroup.GET("", api.ListCategoriesHandler(db, redisClient)) // List categories endpoint
	categoryGroup.POST("", api.CreateCategoryHandler(db))             // Create category endpoint
	categoryGroup.DELETE("/:id", api.DeleteCategoryHandler(db))       // Delete category endpoint

	// Expense routes (protected by JWT)
	expenseGroup := r.Group("/api/expenses")
	expenseGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), withRedis)
	expenseGroup.GET("", api.ListExpensesHandler(db, redisClient))      // List expenses endpoint
	expenseGroup.POST("", api.CreateExpenseHandler(db))                 // Create expense endpoint
	expenseGroup.GET("/stats", api.ExpenseStatsHandler(db, redisClient)) // Expense statistics endpoint
	expenseGroup.PUT("/:id", api.UpdateExpenseHandler(db))              // Update expense endpoint
	expenseGroup.DELETE("/:id", api.DeleteExpenseHandler(db))           // Delete expense endpoint

	// Income routes (protected by JWT)
	incomeGroup := r.Group("/api/incomes")
	incomeGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), withRedis)
	incomeGroup.GET("", api.ListIncomesHandler(db, redisClient))       // List income endpoint
	incomeGroup.POST("", api.CreateIncomeHandler(db))                  // Create income endpoint
	incomeGroup.GET("/stats", api.IncomeStatsHandler(db, redisClient)) // Income statistics endpoint
	incomeGroup.PUT("/:id", api.UpdateIncomeHandler(db))               // Update income endpoint
	incomeGroup.DELETE("/:id", api.DeleteIncomeHandler(db))            // Delete income endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
