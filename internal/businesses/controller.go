package businesses

import (
	"errors"
	"net/http"

	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for business management
type Controller struct {
	service Service
}

// NewController creates a new business controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBusiness handles POST /api/v1/admin/businesses
func (c *Controller) CreateBusiness(ctx *gin.Context) {
	var req BusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	business, err := c.service.CreateBusiness(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create business", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Business created successfully", business)
}

// GetBusiness handles GET /api/v1/businesses/:businessId
func (c *Controller) GetBusiness(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	business, err := c.service.GetBusiness(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(ctx, http.StatusNotFound, "Business not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get business", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Business retrieved successfully", business)
}

// UpdateBusiness handles PUT /api/v1/admin/businesses/:businessId
func (c *Controller) UpdateBusiness(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	var req BusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	business, err := c.service.UpdateBusiness(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(ctx, http.StatusNotFound, "Business not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to update business", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Business updated successfully", business)
}

// ListBusinesses handles GET /api/v1/admin/businesses
func (c *Controller) ListBusinesses(ctx *gin.Context) {
	items, err := c.service.ListBusinesses(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list businesses", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Businesses retrieved successfully", gin.H{
		"businesses": items,
		"count":      len(items),
	})
}
