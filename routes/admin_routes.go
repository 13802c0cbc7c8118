package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markur/jesus-walks-napa/controllers"
	"github.com/markur/jesus-walks-napa/middleware"
)

// registerAdminRoutes wires the admin-only routes
func registerAdminRoutes(api *gin.RouterGroup, ctrl Controllers) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/users", controllers.AdminListUsers)
		admin.PUT("/users/:id/block", controllers.BlockUser)
		admin.PUT("/users/:id/unblock", controllers.UnblockUser)

		admin.GET("/products", controllers.AdminListProducts)
		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		admin.POST("/events", controllers.CreateEvent)
		admin.PUT("/events/:id", controllers.UpdateEvent)
		admin.DELETE("/events/:id", controllers.DeleteEvent)
		admin.GET("/events/:id/registrations", controllers.ListEventRegistrations)

		admin.GET("/orders", ctrl.Orders.AdminListOrders)
		admin.PUT("/orders/:id/status", ctrl.Orders.UpdateOrderStatus)

		admin.GET("/sales-report", controllers.GetSalesReport)
		admin.GET("/sales-report/excel", controllers.DownloadSalesReportExcel)
	}
}
