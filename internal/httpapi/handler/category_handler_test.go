package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

// --- MOCK SERVICE ---

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedResponse[dto.CategoryResponse]), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// fakeIdentity plays the part of the auth middleware for a fixed requester.
func fakeIdentity(userID int64, username, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxUsername, username)
		c.Set(middleware.CtxRole, role)
		c.Next()
	}
}

func rejectAuth(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
	c.Abort()
}

func setupCategoryRouter(mockService *MockCategoryService, requireAuth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCategoryHandler(mockService)
	h.RegisterRoutes(r.Group("/v1/categories"), requireAuth, middleware.RequireAdmin())
	return r
}

func TestCategoryList_Public(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, rejectAuth)

	page := dto.NewPaginatedResponse([]dto.CategoryResponse{
		{Name: "Movies", Slug: "movies"},
	}, 1, 1, 20)
	mockService.On("List", mock.Anything, "", 1, 20).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/categories/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "movies")
}

// page_size above the cap clamps to 100 rather than snapping back to the
// default of 20.
func TestCategoryList_PageSizeClampedToCap(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, rejectAuth)

	page := dto.NewPaginatedResponse([]dto.CategoryResponse{}, 0, 1, 100)
	mockService.On("List", mock.Anything, "", 1, 100).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/categories/?page_size=500", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCategoryRetrieveBySlug_MethodNotAllowed(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "admin", models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/v1/categories/movies/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCategoryUpdateBySlug_MethodNotAllowed(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "admin", models.RoleAdmin))

	req := httptest.NewRequest(http.MethodPatch, "/v1/categories/movies/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCategoryCreate_RequiresAuth(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, rejectAuth)

	w := postJSON(router, "/v1/categories/", gin.H{"name": "Movies", "slug": "movies"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_RequiresAdminRole(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(2, "mod", models.RoleModerator))

	w := postJSON(router, "/v1/categories/", gin.H{"name": "Movies", "slug": "movies"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_AdminSucceeds(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "root", models.RoleAdmin))

	mockService.On("Create", mock.Anything, dto.CreateCategoryDTO{Name: "Movies", Slug: "movies"}).
		Return(&models.Category{ID: 1, Name: "Movies", Slug: "movies"}, nil)

	w := postJSON(router, "/v1/categories/", gin.H{"name": "Movies", "slug": "movies"})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCategoryCreate_SlugTaken(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "root", models.RoleAdmin))

	mockService.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateCategoryDTO")).
		Return(nil, service.ErrSlugTaken)

	w := postJSON(router, "/v1/categories/", gin.H{"name": "Movies", "slug": "movies"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryDelete_Admin(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "root", models.RoleAdmin))

	mockService.On("DeleteBySlug", mock.Anything, "movies").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/categories/movies/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCategoryDelete_Missing(t *testing.T) {
	mockService := new(MockCategoryService)
	router := setupCategoryRouter(mockService, fakeIdentity(1, "root", models.RoleAdmin))

	mockService.On("DeleteBySlug", mock.Anything, "ghost").Return(service.ErrCategoryNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/v1/categories/ghost/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
