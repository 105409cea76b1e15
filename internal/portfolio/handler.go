package portfolio

import (
	"net/http"
	"strconv"

	"portfolio-builder/internal/errors"
	"portfolio-builder/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	p := &Portfolio{
		Title:       form.Title,
		Description: form.Description,
		Theme:       form.Theme,
	}

	if err := h.service.CreatePortfolio(c.Request.Context(), userID.(uint64), p); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"portfolio": p})
}

func (h *Handler) Show(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	// viewer id is zero for anonymous visitors
	var viewerID uint64
	if v, exists := c.Get("user_id"); exists {
		viewerID = v.(uint64)
	}

	p, serviceErr := h.service.GetPortfolio(c.Request.Context(), id, viewerID)
	if serviceErr != nil {
		c.Error(serviceErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": p})
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.GetUserPortfolios(c.Request.Context(), userID.(uint64), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var patch UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	p, serviceErr := h.service.UpdatePortfolio(c.Request.Context(), id, userID.(uint64), patch)
	if serviceErr != nil {
		c.Error(serviceErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": p})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	userID, _ := c.Get("user_id")
	if err := h.service.DeletePortfolio(c.Request.Context(), id, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ShowPublic serves the published portfolio by slug, no auth required
func (h *Handler) ShowPublic(c *gin.Context) {
	slug := c.Param("slug")

	p, err := h.service.GetPublicBySlug(c.Request.Context(), slug)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": p})
}

func parseID(c *gin.Context) (uint64, *errors.APIError) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid portfolio id", err)
	}
	return id, nil
}
