package businesses

import (
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBusinessRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Tenant administration (platform admins)
	admin := rg.Group("/admin/businesses")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		admin.POST("", controller.CreateBusiness)
		admin.GET("", controller.ListBusinesses)
		admin.PUT("/:businessId", controller.UpdateBusiness)
	}

	// Public tenant profile (used by booking and cancellation pages)
	rg.GET("/businesses/:businessId", controller.GetBusiness)
}
