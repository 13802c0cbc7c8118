package routes

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/controllers"
	"github.com/markur/jesus-walks-napa/utils"
)

// Controllers carries the dependency-injected controllers used by the
// checkout flow. Catalog, cart, event and admin handlers read the shared
// database directly and need no wiring.
type Controllers struct {
	Shipping *controllers.ShippingController
	Payments *controllers.PaymentController
	Orders   *controllers.OrderController
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg *config.Config, ctrl Controllers) *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   cfg.Env == "production",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("jwn_session", store))

	// OAuth routes live outside the versioned API group
	auth := router.Group("/auth")
	{
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	api := router.Group("/" + utils.APIVersion)
	{
		registerUserRoutes(api, ctrl)
		registerAdminRoutes(api, ctrl)
	}

	return router
}
