package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservly/api/routes"
	"reservly/internal/notifications"
	"reservly/internal/reservations"
	"reservly/internal/shared/config"
	"reservly/internal/shared/database"
	"reservly/pkg/logger"
	"reservly/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env when present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.GetDefault()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing databases: %v", err)
		}
	}()

	var publisher reservations.Publisher
	if cfg.Kafka.Enabled {
		producer, err := notifications.NewKafkaProducer(
			notifications.DefaultKafkaProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		if err != nil {
			log.Fatalf("Failed to initialize Kafka producer: %v", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Printf("Error closing Kafka producer: %v", err)
			}
		}()
		publisher = producer
		appLogger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		appLogger.Info("Kafka disabled, cancellation notifications will not be published")
	}

	engine := setupEngine(cfg, db, appLogger)

	router := routes.NewRouter(cfg, db, publisher)
	router.SetupRoutes(engine)

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server starting", "address", cfg.GetServerAddress(), "mode", cfg.GinMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited gracefully")
}

// setupEngine builds the gin engine with global middleware
func setupEngine(cfg *config.Config, db *database.DB, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(requestLogger(appLogger))
	engine.Use(cors.New(corsConfig(cfg)))

	rateLimiter := ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
		Enabled:         cfg.RateLimit.Enabled,
		WindowDuration:  cfg.RateLimit.WindowDuration,
		DefaultRequests: cfg.RateLimit.DefaultRequests,
		PublicRequests:  cfg.RateLimit.PublicRequests,
		BookingRequests: cfg.RateLimit.BookingRequests,
		AdminRequests:   cfg.RateLimit.AdminRequests,
		HealthRequests:  cfg.RateLimit.HealthRequests,
		WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
	})
	engine.Use(ratelimit.Middleware(rateLimiter))

	return engine
}

// requestLogger logs every HTTP request with latency
func requestLogger(appLogger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appLogger.LogHTTPRequest(c, time.Since(start))
	}
}

// corsConfig builds CORS settings for the dashboard frontend
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsCfg.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour

	if cfg.IsProduction() {
		corsCfg.AllowOrigins = []string{
			"https://dashboard.reservly.app",
			"https://www.reservly.app",
		}
	} else {
		corsCfg.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}

	return corsCfg
}
