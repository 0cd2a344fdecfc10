// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"reservly/internal/businesses"
	"reservly/internal/policies"
	"reservly/internal/reservations"
	"reservly/internal/shared/config"
	"reservly/internal/shared/database"
	"reservly/pkg/cache"
	"reservly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher reservations.Publisher

	// Shared service instances for cross-module injection
	businessService businesses.Service
	policyService   policies.Service
}

// NewRouter creates a new router instance. The publisher may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher reservations.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Businesses first: the policy and reservation services resolve
		// currency precision through the business directory.
		r.setupBusinessRoutes(api)
		r.setupPolicyRoutes(api)
		r.setupReservationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "reservly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "reservly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupBusinessRoutes configures tenant management routes
func (r *Router) setupBusinessRoutes(rg *gin.RouterGroup) {
	businessRepo := businesses.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedis())
	r.businessService = businesses.NewService(businessRepo, cacheService)

	businessController := businesses.NewController(r.businessService)
	businesses.SetupBusinessRoutes(rg, businessController)
}

// setupPolicyRoutes configures cancellation policy routes
func (r *Router) setupPolicyRoutes(rg *gin.RouterGroup) {
	policyRepo := policies.NewRepository(r.db.GetPostgreSQL())
	directory := businesses.NewDirectoryAdapter(r.businessService)
	r.policyService = policies.NewService(policyRepo, policies.NewSetCache(), directory)

	policyController := policies.NewController(r.policyService)
	policies.SetupPolicyRoutes(rg, policyController)
}

// setupReservationRoutes configures reservation and cancellation routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	directory := businesses.NewDirectoryAdapter(r.businessService)
	reservationService := reservations.NewService(
		reservationRepo,
		r.policyService,
		directory,
		r.publisher,
		logger.GetDefault(),
	)

	reservationController := reservations.NewController(reservationService)
	reservations.SetupReservationRoutes(rg, reservationController)
}
