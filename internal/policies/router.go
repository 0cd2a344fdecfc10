package policies

import (
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPolicyRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Policy administration (business managers and platform admins)
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("MANAGER", "ADMIN"))
	{
		admin.GET("/businesses/:businessId/cancellation-policies", controller.ListPolicies)
		admin.POST("/businesses/:businessId/cancellation-policies", controller.CreatePolicy)
		admin.PUT("/cancellation-policies/:id", controller.UpdatePolicy)
		admin.DELETE("/cancellation-policies/:id", controller.DeletePolicy)
	}

	// Refund quote for the guest cancellation page; guests arrive via an
	// emailed link, so no session is required.
	rg.GET("/businesses/:businessId/cancellation-quote", controller.QuoteRefund)
}
