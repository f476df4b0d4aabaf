package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

// --- MOCK SERVICE ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ObtainToken(username, confirmationCode string) (string, error) {
	args := m.Called(username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func noopRateLimit(c *gin.Context) {
	c.Next()
}

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService)
	h.RegisterRoutes(r.Group("/v1/auth"), noopRateLimit)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPost, path, body)
}

func patchJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPatch, path, body)
}

func sendJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup_EchoesIdentityNotCode(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("Signup", "reader", "reader@example.com").
		Return(&models.User{Username: "reader", Email: "reader@example.com", ConfirmationCode: "secret"}, nil)

	w := postJSON(router, "/v1/auth/signup/", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reader", resp["username"])
	assert.Equal(t, "reader@example.com", resp["email"])
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestSignup_InvalidUsername(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("Signup", "me", "me@example.com").
		Return(nil, service.ErrInvalidUsername)

	w := postJSON(router, "/v1/auth/signup/", gin.H{
		"username": "me",
		"email":    "me@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_MissingEmail(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	w := postJSON(router, "/v1/auth/signup/", gin.H{"username": "reader"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignup_MailFailure(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("Signup", "reader", "reader@example.com").
		Return(nil, service.ErrMailDelivery)

	w := postJSON(router, "/v1/auth/signup/", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestToken_Success(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ObtainToken", "reader", "good-code").Return("signed-jwt", nil)

	w := postJSON(router, "/v1/auth/token/", gin.H{
		"username":          "reader",
		"confirmation_code": "good-code",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-jwt", resp["token"])
}

func TestToken_UnknownUserIs404(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ObtainToken", "nobody", "whatever").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/v1/auth/token/", gin.H{
		"username":          "nobody",
		"confirmation_code": "whatever",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCodeIs400WithMessage(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("ObtainToken", "reader", "bad-code").
		Return("", service.ErrInvalidConfirmationCode)

	w := postJSON(router, "/v1/auth/token/", gin.H{
		"username":          "reader",
		"confirmation_code": "bad-code",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid confirmation code", resp["message"])
}
