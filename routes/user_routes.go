package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markur/jesus-walks-napa/controllers"
	"github.com/markur/jesus-walks-napa/middleware"
)

// registerUserRoutes wires the public and user-facing routes
func registerUserRoutes(api *gin.RouterGroup, ctrl Controllers) {
	// Public routes
	api.POST("/signup", controllers.RegisterUser)
	api.POST("/login", controllers.LoginUser)
	api.POST("/logout", controllers.LogoutUser)

	api.GET("/events", controllers.ListEvents)
	api.GET("/events/:id", controllers.GetEvent)

	api.GET("/products", controllers.ListProducts)
	api.GET("/products/:id", controllers.GetProduct)

	// Authenticated routes
	user := api.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/me", controllers.GetCurrentUser)

		user.POST("/events/:id/register", controllers.RegisterForEvent)
		user.DELETE("/events/:id/register", controllers.CancelRegistration)
		user.GET("/registrations", controllers.ListMyRegistrations)

		user.GET("/cart", controllers.GetCart)
		user.POST("/cart", controllers.AddToCart)
		user.PUT("/cart/:id", controllers.UpdateCartItem)
		user.DELETE("/cart/:id", controllers.RemoveCartItem)
		user.DELETE("/cart", controllers.ClearCart)

		// Checkout pipeline
		user.POST("/shipping/validate-address", ctrl.Shipping.ValidateAddress)
		user.POST("/shipping/calculate-rates", ctrl.Shipping.CalculateRates)
		user.POST("/create-payment-intent", ctrl.Payments.CreatePaymentIntent)
		user.POST("/orders", ctrl.Orders.CreateOrder)

		user.GET("/orders", ctrl.Orders.ListOrders)
		user.GET("/orders/:id", ctrl.Orders.GetOrderDetails)
		user.POST("/orders/:id/cancel", ctrl.Orders.CancelOrder)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)
	}
}
