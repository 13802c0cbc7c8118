package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats aggregates one day of application logs into a checkout-focused
// operations report.
type LogStats struct {
	TotalErrors        int
	LoginSuccess       int
	LoginFailures      int
	OrdersPlaced       int
	PaymentVerifyFails int
	GeocodeFailures    int
	CarrierFailures    int
	RateQuoteFailures  int
	FinalizeFailures   int
	StatusTransitions  int
	InvalidTransitions int
	UserActivities     map[string]int
	ErrorPatterns      map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Login failed") {
			stats.LoginFailures++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Payment verification failed") {
			stats.PaymentVerifyFails++
		}
		if strings.Contains(line, "Geocoding failed") {
			stats.GeocodeFailures++
		}
		if strings.Contains(line, "Carrier address verification failed") {
			stats.CarrierFailures++
		}
		if strings.Contains(line, "Rate calculation failed") {
			stats.RateQuoteFailures++
		}
		if strings.Contains(line, "Failed to finalize order") {
			stats.FinalizeFailures++
		}
		if strings.Contains(line, "Rejected status transition") {
			stats.InvalidTransitions++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "logged in") {
			stats.LoginSuccess++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Finalized order") {
			stats.OrdersPlaced++
		}
		if strings.Contains(line, "transitioned to") {
			stats.StatusTransitions++
		}
	}
}

func extractUserActivity(line string, stats *LogStats) {
	emailRegex := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	if email := emailRegex.FindString(line); email != "" {
		stats.UserActivities[email]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Checkout:")
	fmt.Printf("   Orders Placed: %d\n", stats.OrdersPlaced)
	fmt.Printf("   Payment Verification Failures: %d\n", stats.PaymentVerifyFails)
	fmt.Printf("   Finalize Failures: %d\n", stats.FinalizeFailures)

	fmt.Println("\n3. Shipping Services:")
	fmt.Printf("   Geocoding Failures: %d\n", stats.GeocodeFailures)
	fmt.Printf("   Carrier Verification Failures: %d\n", stats.CarrierFailures)
	fmt.Printf("   Rate Quote Failures: %d\n", stats.RateQuoteFailures)

	fmt.Println("\n4. Fulfillment:")
	fmt.Printf("   Status Transitions: %d\n", stats.StatusTransitions)
	fmt.Printf("   Rejected Transitions: %d\n", stats.InvalidTransitions)

	fmt.Println("\n5. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n6. Most Active Users:")
	printTopUsers(stats.UserActivities, 5)

	fmt.Println("\n7. Most Common Errors:")
	printTopErrors(stats.ErrorPatterns, 5)
}

func printTopUsers(users map[string]int, limit int) {
	type userActivity struct {
		email string
		count int
	}

	var activities []userActivity
	for email, count := range users {
		activities = append(activities, userActivity{email, count})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].count > activities[j].count
	})

	for i, activity := range activities {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d activities\n", activity.email, activity.count)
	}
}

func printTopErrors(errs map[string]int, limit int) {
	type errorCount struct {
		message string
		count   int
	}

	var errorList []errorCount
	for msg, count := range errs {
		errorList = append(errorList, errorCount{msg, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		return errorList[i].count > errorList[j].count
	})

	for i, e := range errorList {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d occurrences\n", e.message, e.count)
	}
}
