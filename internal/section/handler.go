package section

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

// Create handles POST /portfolios/:id/sections
func (h *Handler) Create(c *gin.Context) {
	portfolioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid portfolio id", err))
		return
	}

	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	sec, svcErr := h.service.CreateSection(c.Request.Context(), portfolioID, userID.(uint64), input)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": sec})
}

// List handles GET /portfolios/:id/sections?include_hidden=true
func (h *Handler) List(c *gin.Context) {
	portfolioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid portfolio id", err))
		return
	}

	includeHidden := c.Query("include_hidden") == "true"

	var viewerID uint64
	if v, exists := c.Get("user_id"); exists {
		viewerID = v.(uint64)
	}

	sections, svcErr := h.service.ListSections(c.Request.Context(), portfolioID, viewerID, includeHidden)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// Update handles PUT /sections/:sectionId
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("sectionId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid section id", err))
		return
	}

	var patch UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")
	sec, svcErr := h.service.UpdateSection(c.Request.Context(), id, userID.(uint64), patch)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": sec})
}

// Delete handles DELETE /sections/:sectionId
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("sectionId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid section id", err))
		return
	}

	userID, _ := c.Get("user_id")
	if svcErr := h.service.DeleteSection(c.Request.Context(), id, userID.(uint64)); svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}
