package project

import (
	"net/http"
	"strconv"

	"portfolio-builder/internal/errors"

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
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
	Order       int    `json:"order"`
}

// Create handles POST /portfolios/:id/projects
func (h *Handler) Create(c *gin.Context) {
	portfolioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid portfolio id", err))
		return
	}

	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	p := &Project{
		Title:       form.Title,
		Description: form.Description,
		Link:        form.Link,
		ImageURL:    form.ImageURL,
		Order:       form.Order,
	}

	if svcErr := h.service.CreateProject(c.Request.Context(), portfolioID, userID.(uint64), p); svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": p})
}

// List handles GET /portfolios/:id/projects
func (h *Handler) List(c *gin.Context) {
	portfolioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid portfolio id", err))
		return
	}

	projects, svcErr := h.service.ListProjects(c.Request.Context(), portfolioID)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Update handles PUT /projects/:projectId
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var patch UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	p, svcErr := h.service.UpdateProject(c.Request.Context(), id, userID.(uint64), patch)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": p})
}

// Delete handles DELETE /projects/:projectId
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	userID, _ := c.Get("user_id")
	if svcErr := h.service.DeleteProject(c.Request.Context(), id, userID.(uint64)); svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}
