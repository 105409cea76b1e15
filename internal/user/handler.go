package user

import (
	"net/http"
	"strings"

	"portfolio-builder/auth"
	"portfolio-builder/internal/asset"
	"portfolio-builder/internal/errors"
	"portfolio-builder/redis"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for users
type Handler struct {
	service Service
	avatars asset.ObjectStorage
}

// NewHandler creates a new user handler
func NewHandler(service Service, avatars asset.ObjectStorage) *Handler {
	return &Handler{service: service, avatars: avatars}
}

// FormLogin represents login form data
type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FormRegister represents registration form data
type FormRegister struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type FormUpdateProfile struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &User{
		Email:    form.Email,
		Username: form.Username,
		Name:     form.Name,
		Password: form.Password,
	}

	if err := h.service.Register(user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToSafeUser()})
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	if err := redis.StoreToken(c.Request.Context(), token, auth.TokenTTL); err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToSafeUser(),
	})
}

// Logout revokes the current session token
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString("jwt_token")
	if token != "" {
		if err := redis.RevokeToken(c.Request.Context(), token); err != nil {
			c.Error(errors.Internal(err))
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// GetProfile handles getting the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("user not found", nil))
		return
	}

	user, err := h.service.GetUserByID(userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToSafeUser()})
}

// UpdateProfile changes name/username for the current user
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form FormUpdateProfile
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	user, err := h.service.UpdateProfile(userID.(uint64), form.Name, form.Username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToSafeUser()})
}

// UploadProfilePicture stores a new avatar image (multipart form, field
// "file") and saves its URL on the current user
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Missing file field", err))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.Error(errors.BadRequest("Invalid image format", nil))
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > asset.MaxUploadSize {
		c.Error(errors.BadRequest("File too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}
	defer file.Close()

	key := asset.ObjectKey("avatars", fileHeader.Filename)
	url, err := h.avatars.Put(c.Request.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	userID, _ := c.Get("user_id")
	user, svcErr := h.service.SetAvatar(userID.(uint64), url)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToSafeUser()})
}
