package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret     string
	SessionSecret string

	// External service credentials. All of these are required; the
	// application refuses to start without them.
	RazorpayKey     string
	RazorpaySecret  string
	GeocodingAPIKey string
	CarrierAPIKey   string

	// Optional base URL overrides for the geocoding and carrier aggregator
	// APIs. Tests point these at local stub servers.
	GeocodingBaseURL string
	CarrierBaseURL   string

	FrontendURL string
	Port        string
	Env         string
}

// requiredKeys are the environment-supplied secrets without which checkout
// cannot function. Absence of any of them prevents startup.
var requiredKeys = []string{
	"RAZORPAY_KEY",
	"RAZORPAY_SECRET",
	"GEOCODING_API_KEY",
	"CARRIER_API_KEY",
	"JWT_SECRET",
	"SESSION_SECRET",
}

// LoadConfig loads configuration from environment variables. A .env file is
// honored when present but not required.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	for _, key := range requiredKeys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	config := &Config{
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		RazorpayKey:      os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:   os.Getenv("RAZORPAY_SECRET"),
		GeocodingAPIKey:  os.Getenv("GEOCODING_API_KEY"),
		CarrierAPIKey:    os.Getenv("CARRIER_API_KEY"),
		GeocodingBaseURL: os.Getenv("GEOCODING_BASE_URL"),
		CarrierBaseURL:   os.Getenv("CARRIER_BASE_URL"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		Port:             os.Getenv("PORT"),
		Env:              os.Getenv("ENV"),
	}

	return config, nil
}
