package reservations

import (
	"errors"
	"net/http"

	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for reservations and cancellations
type Controller struct {
	service Service
}

// NewController creates a new reservation controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateReservation handles POST /api/v1/businesses/:businessId/reservations
func (c *Controller) CreateReservation(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	var req ReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	reservation, err := c.service.CreateReservation(ctx.Request.Context(), businessID, req)
	if err != nil {
		response.BadRequest(ctx, "Failed to create reservation", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Reservation created successfully", reservation)
}

// GetReservation handles GET /api/v1/reservations/:id
func (c *Controller) GetReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid reservation ID", nil)
		return
	}

	reservation, err := c.service.GetReservation(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.Error(ctx, http.StatusNotFound, "Reservation not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get reservation", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Reservation retrieved successfully", reservation)
}

// ListReservations handles GET /api/v1/admin/businesses/:businessId/reservations
func (c *Controller) ListReservations(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	reservations, err := c.service.ListReservations(ctx.Request.Context(), businessID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list reservations", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Reservations retrieved successfully", gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel. Guests
// reach this from the link in their confirmation email, after reviewing the
// refund quote.
func (c *Controller) CancelReservation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid reservation ID", nil)
		return
	}

	var req CancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	cancellation, err := c.service.CancelReservation(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.Error(ctx, http.StatusNotFound, "Reservation not found", nil)
			return
		}
		response.BadRequest(ctx, "Failed to cancel reservation", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Reservation cancelled successfully. Refunds are returned to the original payment method.", cancellation)
}

// GetCancellation handles GET /api/v1/reservations/:id/cancellation
func (c *Controller) GetCancellation(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid reservation ID", nil)
		return
	}

	cancellation, err := c.service.GetCancellation(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCancellationNotFound) {
			response.Error(ctx, http.StatusNotFound, "Cancellation not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get cancellation", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation retrieved successfully", cancellation)
}

// ListCancellations handles GET /api/v1/admin/businesses/:businessId/cancellations
func (c *Controller) ListCancellations(ctx *gin.Context) {
	businessID, err := uuid.Parse(ctx.Param("businessId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid business ID", nil)
		return
	}

	cancellations, err := c.service.ListCancellations(ctx.Request.Context(), businessID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list cancellations", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellations retrieved successfully", gin.H{
		"cancellations": cancellations,
		"count":         len(cancellations),
	})
}
