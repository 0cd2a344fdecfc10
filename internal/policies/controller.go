package policies

import (
	"errors"
	"net/http"

	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Controller handles HTTP requests for cancellation policies
type Controller struct {
	service Service
}

// NewController creates a new policy controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePolicy handles POST /api/v1/admin/businesses/:businessId/cancellation-policies
func (c *Controller) CreatePolicy(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	var req PolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	policy, err := c.service.CreatePolicy(ctx.Request.Context(), businessID, req)
	if err != nil {
		respondPolicyError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Cancellation policy created successfully", policy)
}

// ListPolicies handles GET /api/v1/admin/businesses/:businessId/cancellation-policies
func (c *Controller) ListPolicies(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	policies, err := c.service.ListPolicies(ctx.Request.Context(), businessID)
	if err != nil {
		respondPolicyError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation policies retrieved successfully", gin.H{
		"policies": policies,
		"count":    len(policies),
	})
}

// UpdatePolicy handles PUT /api/v1/admin/cancellation-policies/:id
func (c *Controller) UpdatePolicy(ctx *gin.Context) {
	policyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid policy ID", nil)
		return
	}

	var req PolicyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	policy, err := c.service.UpdatePolicy(ctx.Request.Context(), policyID, req)
	if err != nil {
		respondPolicyError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation policy updated successfully", policy)
}

// DeletePolicy handles DELETE /api/v1/admin/cancellation-policies/:id
func (c *Controller) DeletePolicy(ctx *gin.Context) {
	policyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid policy ID", nil)
		return
	}

	if err := c.service.DeletePolicy(ctx.Request.Context(), policyID); err != nil {
		respondPolicyError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation policy deleted successfully", nil)
}

// QuoteRefund handles GET /api/v1/businesses/:businessId/cancellation-quote.
// The guest-facing cancel page calls this before the guest confirms, so it
// needs no prior reservation lookup on our side.
func (c *Controller) QuoteRefund(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	var req ResolutionRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err.Error())
		return
	}

	total, err := decimal.NewFromString(req.ReservationTotal)
	if err != nil {
		response.BadRequest(ctx, "Invalid reservation total", nil)
		return
	}

	resolution, err := c.service.ResolveForBusiness(ctx.Request.Context(), businessID, total, req.DaysUntilStart)
	if err != nil {
		respondPolicyError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation quote computed successfully", resolution)
}

// respondPolicyError maps the service error kinds onto HTTP status codes
func respondPolicyError(ctx *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(ctx, "Validation failed", gin.H{"field": ve.Field, "message": ve.Message})
	case errors.Is(err, ErrPolicyNotFound):
		response.Error(ctx, http.StatusNotFound, "Cancellation policy not found", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process cancellation policy request", err.Error())
	}
}
