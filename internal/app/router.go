package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"saferide/internal/handler"
	"saferide/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
// RedisClient and NewRelicApp may be nil when the backing service is disabled.
type RouterDeps struct {
	RideHandler     *handler.RideHandler
	DriverHandler   *handler.DriverHandler
	PaymentHandler  *handler.PaymentHandler
	UserHandler     *handler.UserHandler
	LocationHandler *handler.LocationHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.GET("/:id/rides", deps.RideHandler.GetUserRides)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.RequestRide)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/payment", deps.RideHandler.ConfirmPayment)
			rides.POST("/:id/advance", deps.RideHandler.AdvanceRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.GET("/:id/receipt", deps.RideHandler.GetReceipt)
			rides.GET("/:id/payments", deps.PaymentHandler.GetRidePayments)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/nearby", deps.DriverHandler.GetNearby)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
		}

		// Payment routes.
		v1.GET("/payments/:id", deps.PaymentHandler.GetPayment)

		// Catalog and location search.
		v1.GET("/ridetypes", deps.RideHandler.GetRideTypes)
		v1.GET("/locations", deps.LocationHandler.Search)
	}

	return router
}
