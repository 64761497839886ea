package upload

import (
	"errors"
	"net/http"
	"strconv"

	"craftmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/upload/avatar", h.UploadAvatar)
}

// RegisterMasterRoutes expects the group to carry JWT auth plus the master role check.
func (h *Handler) RegisterMasterRoutes(master *gin.RouterGroup) {
	master.POST("/upload/services/:id/images", h.UploadServiceImage)
	master.DELETE("/upload/services/:id/images", h.DeleteServiceImage)
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "No file provided")
		return
	}

	url, err := h.svc.UploadAvatar(c.Request.Context(), c.GetInt64("user_id"), fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}

func (h *Handler) UploadServiceImage(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid service id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "No file provided")
		return
	}

	url, err := h.svc.UploadServiceImage(c.Request.Context(), c.GetInt64("user_id"), serviceID, fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}

func (h *Handler) DeleteServiceImage(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid service id")
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.svc.DeleteServiceImage(c.Request.Context(), c.GetInt64("user_id"), serviceID, req.URL); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidExtension):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrTooManyImages):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image limit reached")
	case errors.Is(err, ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	case errors.Is(err, ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this service")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
