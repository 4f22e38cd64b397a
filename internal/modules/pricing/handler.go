package pricing

import (
	"errors"
	"net/http"

	"travelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes mounts fee configuration management; the router group
// is expected to carry auth + admin role middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/fee-configs")
	{
		g.GET("", h.ListConfigs)
		g.POST("", h.CreateConfig)
		g.POST("/:id/activate", h.ActivateConfig)
	}
}

func (h *Handler) ListConfigs(c *gin.Context) {
	configs, err := h.service.ListConfigs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list fee configs")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee_configs": configs})
}

func (h *Handler) CreateConfig(c *gin.Context) {
	var req CreateFeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cfg, err := h.service.CreateConfig(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Fee rates out of range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create fee config")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"fee_config": cfg})
}

func (h *Handler) ActivateConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fee config ID")
		return
	}

	cfg, err := h.service.ActivateConfig(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Fee config not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to activate fee config")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee_config": cfg})
}
