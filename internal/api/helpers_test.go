package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

// testPassword satisfies the policy used at registration
const testPassword = "Abc123_&"

// fakeMailer records outgoing mail and can be told to fail dispatch
type fakeMailer struct {
	fail     bool
	lastTo   string
	lastBody string
	sent     int
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent++
	f.lastTo = to
	f.lastBody = body
	return nil
}

// setupTestDB opens an isolated in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Expense{}, &domain.Income{}))
	return db
}

// setupRouter wires the full route table against the given database,
// with caching disabled
func setupRouter(t *testing.T, db *gorm.DB, mail Mailer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/api/auth/register", RegisterHandler(db, testJWTSecret))
	r.POST("/api/auth/login", LoginHandler(db, testJWTSecret))

	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	authGroup.GET("/me", MeHandler(db))
	authGroup.PUT("/updatedetails", UpdateDetailsHandler(db, testJWTSecret, t.TempDir()))
	authGroup.POST("/send-verification", SendVerificationHandler(db, mail))
	authGroup.PUT("/updatepassword", UpdatePasswordHandler(db, testJWTSecret))
	authGroup.DELETE("/deleteaccount", DeleteAccountHandler(db))

	categoryGroup := r.Group("/api/categories")
	categoryGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	categoryGroup.GET("", ListCategoriesHandler(db, nil))
	categoryGroup.POST("", CreateCategoryHandler(db))
	categoryGroup.DELETE("/:id", DeleteCategoryHandler(db))

	expenseGroup := r.Group("/api/expenses")
	expenseGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	expenseGroup.GET("", ListExpensesHandler(db, nil))
	expenseGroup.POST("", CreateExpenseHandler(db))
	expenseGroup.GET("/stats", ExpenseStatsHandler(db, nil))
	expenseGroup.PUT("/:id", UpdateExpenseHandler(db))
	expenseGroup.DELETE("/:id", DeleteExpenseHandler(db))

	incomeGroup := r.Group("/api/incomes")
	incomeGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	incomeGroup.GET("", ListIncomesHandler(db, nil))
	incomeGroup.POST("", CreateIncomeHandler(db))
	incomeGroup.GET("/stats", IncomeStatsHandler(db, nil))
	incomeGroup.PUT("/:id", UpdateIncomeHandler(db))
	incomeGroup.DELETE("/:id", DeleteIncomeHandler(db))

	return r
}

// doJSON performs a JSON request with an optional bearer token
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response into a map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// decodeInto unmarshals a recorded JSON response into dest
func decodeInto(t *testing.T, w *httptest.ResponseRecorder, dest any) error {
	t.Helper()
	return json.Unmarshal(w.Body.Bytes(), dest)
}

// registerUser creates an account through the API and returns its token and ID
func registerUser(t *testing.T, r *gin.Engine, name, email string) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	id, _ := body["id"].(float64)
	require.NotZero(t, id)
	return token, uint(id)
}

// createCategory creates a custom category and returns its ID
func createCategory(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, "create category failed: %s", w.Body.String())
	body := decodeBody(t, w)
	id, _ := body["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

// createExpense records an expense against a category and returns its ID
func createExpense(t *testing.T, r *gin.Engine, token, title string, amount float64, categoryID uint) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/expenses", token, gin.H{
		"title":    title,
		"amount":   amount,
		"category": categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "create expense failed: %s", w.Body.String())
	body := decodeBody(t, w)
	id, _ := body["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}
