package asset

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

// Upload handles POST /upload (multipart form, field "file")
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Missing file field", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}
	defer file.Close()

	userID, _ := c.Get("user_id")
	a, svcErr := h.service.Upload(
		c.Request.Context(),
		userID.(uint64),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": a, "url": a.URL})
}

// List handles GET /upload
func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	assets, total, err := h.service.ListAssets(c.Request.Context(), userID.(uint64), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": assets, "total": total})
}

// Delete handles DELETE /assets/:assetId
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("assetId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid asset id", err))
		return
	}

	userID, _ := c.Get("user_id")
	if svcErr := h.service.DeleteAsset(c.Request.Context(), id, userID.(uint64)); svcErr != nil {
		c.Error(svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}
