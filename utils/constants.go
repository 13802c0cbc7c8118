package utils

// Application constants
const (
	// Application name
	AppName = "Jesus Walks Napa"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Currency used for all charges
	Currency = "USD"

	// Store origin address used as the default "ship from" for rate quotes
	StoreAddress1   = "1 Main St"
	StoreCity       = "Napa"
	StoreState      = "CA"
	StorePostalCode = "94559"
	StoreCountry    = "US"
	StorePhone      = "7075550100"

	// Support contact shown on invoices and emails
	SupportEmail = "support@jesuswalksnapa.com"
)
