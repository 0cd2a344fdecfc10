package reservations

import (
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Guest-facing reservation routes; guests act through emailed links, so
	// no session is required here.
	rg.POST("/businesses/:businessId/reservations", controller.CreateReservation)
	rg.GET("/reservations/:id", controller.GetReservation)
	rg.POST("/reservations/:id/cancel", controller.CancelReservation)
	rg.GET("/reservations/:id/cancellation", controller.GetCancellation)

	// Business dashboard routes (managers and platform admins)
	admin := rg.Group("/admin/businesses")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("MANAGER", "ADMIN"))
	{
		admin.GET("/:businessId/reservations", controller.ListReservations)
		admin.GET("/:businessId/cancellations", controller.ListCancellations)
	}
}
