package main

import (
	"log"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/controllers"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/routes"
	"github.com/markur/jesus-walks-napa/services/carrier"
	"github.com/markur/jesus-walks-napa/services/geocode"
	"github.com/markur/jesus-walks-napa/services/order"
	"github.com/markur/jesus-walks-napa/services/payment"
	"github.com/markur/jesus-walks-napa/services/shipping"
	"github.com/markur/jesus-walks-napa/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Failed to load configuration: %v", err)
		log.Fatalf("Failed to load configuration: %v", err)
	}

	config.InitDB()
	config.InitGoogleOAuth()

	geocoder := geocode.NewClient(cfg.GeocodingAPIKey, cfg.GeocodingBaseURL)
	carrierAPI := carrier.NewClient(cfg.CarrierAPIKey, cfg.CarrierBaseURL)

	validator := shipping.NewValidator(geocoder, carrierAPI)
	quoter := shipping.NewQuoter(carrierAPI)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	payments := payment.NewManager(gateway, cfg.RazorpaySecret, utils.Currency)

	orderStore := order.NewGormStore(config.DB)
	orderService := order.NewService(orderStore)

	origin := models.ShippingAddress{
		FirstName:  utils.AppName,
		Address1:   utils.StoreAddress1,
		City:       utils.StoreCity,
		State:      utils.StoreState,
		PostalCode: utils.StorePostalCode,
		Country:    utils.StoreCountry,
		Phone:      utils.StorePhone,
	}

	router := routes.SetupRouter(cfg, routes.Controllers{
		Shipping: controllers.NewShippingController(validator, quoter, origin),
		Payments: controllers.NewPaymentController(payments),
		Orders:   controllers.NewOrderController(orderService, payments),
	})

	port := cfg.Port
	if port == "" {
		port = utils.DefaultPort
	}

	utils.LogInfo("Starting %s on port %s", utils.AppName, port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Server failed: %v", err)
		log.Fatalf("Server failed: %v", err)
	}
}
