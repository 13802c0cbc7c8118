package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// reportWindow resolves a named period into a [start, end] range
func reportWindow(period string) (time.Time, time.Time, bool) {
	now := time.Now()
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.Add(24*time.Hour - time.Nanosecond)
		return start, end, true
	case "week":
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		start := end.AddDate(0, 0, -6)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		return start, end, true
	case "month":
		start := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		return start, now.Add(24 * time.Hour), true
	}
	return time.Time{}, time.Time{}, false
}

type salesSummary struct {
	TotalOrders     int             `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	ShippingRevenue decimal.Decimal `json:"shipping_revenue"`
	TotalItems      int             `json:"total_items"`
	TotalCustomers  int             `json:"total_customers"`
	CancelledOrders int             `json:"cancelled_orders"`
	AverageOrderVal decimal.Decimal `json:"average_order_value"`
}

func summarizeOrders(orders []models.Order) salesSummary {
	summary := salesSummary{
		TotalRevenue:    decimal.Zero,
		ShippingRevenue: decimal.Zero,
		AverageOrderVal: decimal.Zero,
	}
	customers := make(map[uint]bool)
	billed := 0
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			summary.CancelledOrders++
			continue
		}
		summary.TotalOrders++
		billed++
		summary.TotalRevenue = summary.TotalRevenue.Add(order.Total)
		if order.ShippingCost != nil {
			summary.ShippingRevenue = summary.ShippingRevenue.Add(*order.ShippingCost)
		}
		customers[order.UserID] = true
		for _, item := range order.OrderItems {
			summary.TotalItems += item.Quantity
		}
	}
	summary.TotalCustomers = len(customers)
	if billed > 0 {
		summary.AverageOrderVal = summary.TotalRevenue.Div(decimal.NewFromInt(int64(billed))).Round(2)
	}
	return summary
}

func loadReportOrders(c *gin.Context) ([]models.Order, string, bool) {
	period := c.DefaultQuery("period", "day")
	startDate, endDate, ok := reportWindow(period)
	if !ok {
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return nil, "", false
	}

	var orders []models.Order
	if err := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("User").
		Preload("OrderItems.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for sales report: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return nil, "", false
	}
	return orders, period, true
}

// GetSalesReport returns the sales summary for the requested period as JSON
func GetSalesReport(c *gin.Context) {
	orders, period, ok := loadReportOrders(c)
	if !ok {
		return
	}
	utils.Success(c, "Sales report generated", gin.H{
		"period":  period,
		"summary": summarizeOrders(orders),
	})
}

// DownloadSalesReportExcel streams the sales report for the requested period
// as an Excel workbook
func DownloadSalesReportExcel(c *gin.Context) {
	orders, period, ok := loadReportOrders(c)
	if !ok {
		return
	}
	startDate, endDate, _ := reportWindow(period)
	summary := summarizeOrders(orders)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	// Store details
	row := sheet.AddRow()
	row.AddCell().SetString(strings.ToUpper(utils.AppName) + " - Sales Report")
	row = sheet.AddRow()
	row.AddCell().SetString(utils.StoreAddress1)
	row = sheet.AddRow()
	row.AddCell().SetString(utils.StoreCity + ", " + utils.StoreState + " " + utils.StorePostalCode)
	row = sheet.AddRow()
	row.AddCell().SetString("Email: " + utils.SupportEmail)
	row = sheet.AddRow()
	row.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	// Table headers
	headers := []string{"Order", "User ID", "User Name", "Date", "Items", "Subtotal", "Shipping", "Total", "Carrier", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	// Table rows
	for _, order := range orders {
		shipping := decimal.Zero
		if order.ShippingCost != nil {
			shipping = *order.ShippingCost
		}
		row := sheet.AddRow()
		row.AddCell().SetString(order.Number)
		row.AddCell().SetInt(int(order.UserID))
		row.AddCell().SetString(order.User.Username)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}
		row.AddCell().SetInt(itemCount)
		row.AddCell().SetString(order.Subtotal().StringFixed(2))
		row.AddCell().SetString(shipping.StringFixed(2))
		row.AddCell().SetString(order.Total.StringFixed(2))
		row.AddCell().SetString(order.ShippingCarrier)
		row.AddCell().SetString(order.Status)
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Orders", fmt.Sprintf("%d", summary.TotalOrders)},
		{"Total Revenue", summary.TotalRevenue.StringFixed(2)},
		{"Shipping Revenue", summary.ShippingRevenue.StringFixed(2)},
		{"Total Items", fmt.Sprintf("%d", summary.TotalItems)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Cancelled Orders", fmt.Sprintf("%d", summary.CancelledOrders)},
		{"Avg. Order Value", summary.AverageOrderVal.StringFixed(2)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
	utils.LogInfo("Generated Excel sales report for period %s", period)
}
