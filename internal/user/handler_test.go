package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"portfolio-builder/internal/middleware"
	"portfolio-builder/redis"
)

var miniRedis *miniredis.Miniredis

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(user *User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockService) Login(email, password string) (*User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) GetUserByID(id uint64) (*User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) UpdateProfile(id uint64, name, username string) (*User, error) {
	args := m.Called(id, name, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) SetAvatar(id uint64, url string) (*User, error) {
	args := m.Called(id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) OwnerInfo(ctx context.Context, userID uint64) (string, string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.String(1), args.Error(2)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())

	// Initialize miniredis for testing if not already done
	if miniRedis == nil {
		var err error
		miniRedis, err = miniredis.Run()
		if err != nil {
			panic(err)
		}
	}

	// Set up Redis client connected to miniredis
	if redis.RedisClient == nil {
		redis.RedisClient = redisLib.NewClient(&redisLib.Options{
			Addr: miniRedis.Addr(),
		})
	}

	return router
}

func TestRegister_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	mockService.On("Register", mock.MatchedBy(func(user *User) bool {
		return user.Name == "John Doe" &&
			user.Email == "john@example.com" &&
			user.Username == "johndoe" &&
			user.Password == "password123"
	})).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(0).(*User)
		user.ID = 1
		user.CreatedAt = time.Now()
		user.UpdatedAt = time.Now()
	})

	router.POST("/register", handler.Register)

	payload := FormRegister{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "john@example.com",
		Password: "password123",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotNil(t, response["user"])
	mockService.AssertExpectations(t)
}

func TestRegister_InvalidEmail(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.POST("/register", handler.Register)

	payload := FormRegister{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "invalid-email",
		Password: "password123",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.POST("/register", handler.Register)

	payload := FormRegister{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "john@example.com",
		Password: "123",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	user := &User{
		ID:       1,
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "john@example.com",
	}

	mockService.On("Login", "john@example.com", "password123").Return(user, nil)

	router.POST("/login", handler.Login)

	payload := FormLogin{
		Email:    "john@example.com",
		Password: "password123",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotNil(t, response["token"])
	assert.NotNil(t, response["user"])
	mockService.AssertExpectations(t)
}

func TestLogin_InvalidInput(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.POST("/login", handler.Login)

	payload := struct{ Email string }{Email: "john@example.com"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	mockService.On("Login", "nonexistent@example.com", "password123").
		Return(nil, assert.AnError)

	router.POST("/login", handler.Login)

	payload := FormLogin{
		Email:    "nonexistent@example.com",
		Password: "password123",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestLogout_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.DELETE("/logout", func(c *gin.Context) {
		c.Set("jwt_token", "valid_token_here")
		handler.Logout(c)
	})

	req := httptest.NewRequest("DELETE", "/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLogout_NoToken(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.DELETE("/logout", handler.Logout)

	req := httptest.NewRequest("DELETE", "/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetProfile_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	user := &User{
		ID:        1,
		Name:      "John Doe",
		Username:  "johndoe",
		Email:     "john@example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mockService.On("GetUserByID", uint64(1)).Return(user, nil)

	router.GET("/profile", func(c *gin.Context) {
		c.Set("user_id", uint64(1))
		handler.GetProfile(c)
	})

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]SafeUser
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "John Doe", response["user"].Name)
	assert.Equal(t, "john@example.com", response["user"].Email)
	mockService.AssertExpectations(t)
}

func TestGetProfile_NoUserID(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	router.GET("/profile", handler.GetProfile)

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, nil)
	router := setupRouter()

	updated := &User{
		ID:       1,
		Name:     "Johnny",
		Username: "johnny",
		Email:    "john@example.com",
	}

	mockService.On("UpdateProfile", uint64(1), "Johnny", "johnny").Return(updated, nil)

	router.PUT("/profile", func(c *gin.Context) {
		c.Set("user_id", uint64(1))
		handler.UpdateProfile(c)
	})

	payload := FormUpdateProfile{Name: "Johnny", Username: "johnny"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]SafeUser
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "johnny", response["user"].Username)
	mockService.AssertExpectations(t)
}

// fakeAvatarStorage records what the handler writes to object storage
type fakeAvatarStorage struct {
	putKey  string
	putSize int64
}

func (f *fakeAvatarStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	f.putKey = key
	f.putSize = size
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeAvatarStorage) Remove(ctx context.Context, key string) error {
	return nil
}

func newPictureRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("building multipart body: %v", err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest("POST", "/profile/picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadProfilePicture_Success(t *testing.T) {
	mockService := new(MockService)
	storage := &fakeAvatarStorage{}
	handler := NewHandler(mockService, storage)
	router := setupRouter()

	updated := &User{
		ID:        1,
		Name:      "John Doe",
		Username:  "johndoe",
		Email:     "john@example.com",
		AvatarURL: "https://cdn.example.com/avatars/some-key.png",
	}
	mockService.On("SetAvatar", uint64(1), mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, "https://cdn.example.com/avatars/")
	})).Return(updated, nil)

	router.POST("/profile/picture", func(c *gin.Context) {
		c.Set("user_id", uint64(1))
		handler.UploadProfilePicture(c)
	})

	data := []byte("fake png bytes")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, newPictureRequest(t, "me.png", "image/png", data))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(storage.putKey, "avatars/"))
	assert.True(t, strings.HasSuffix(storage.putKey, ".png"))
	assert.Equal(t, int64(len(data)), storage.putSize)

	var response map[string]SafeUser
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, updated.AvatarURL, response["user"].AvatarURL)
	mockService.AssertExpectations(t)
}

func TestUploadProfilePicture_MissingFile(t *testing.T) {
	mockService := new(MockService)
	storage := &fakeAvatarStorage{}
	handler := NewHandler(mockService, storage)
	router := setupRouter()

	router.POST("/profile/picture", func(c *gin.Context) {
		c.Set("user_id", uint64(1))
		handler.UploadProfilePicture(c)
	})

	req := httptest.NewRequest("POST", "/profile/picture", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, storage.putKey)
}

func TestUploadProfilePicture_RejectsNonImage(t *testing.T) {
	mockService := new(MockService)
	storage := &fakeAvatarStorage{}
	handler := NewHandler(mockService, storage)
	router := setupRouter()

	router.POST("/profile/picture", func(c *gin.Context) {
		c.Set("user_id", uint64(1))
		handler.UploadProfilePicture(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newPictureRequest(t, "cv.pdf", "application/pdf", []byte("%PDF-1.4")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, storage.putKey)
	mockService.AssertNotCalled(t, "SetAvatar", mock.Anything, mock.Anything)
}
