package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// ListEvents returns upcoming active events with pagination
func ListEvents(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Event{}).Where("is_active = ?", true)
	if c.Query("upcoming") != "false" {
		query = query.Where("starts_at >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count events: %v", err)
		utils.InternalServerError(c, "Failed to fetch events", nil)
		return
	}

	var events []models.Event
	if err := query.Order("starts_at asc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&events).Error; err != nil {
		utils.LogError("Failed to fetch events: %v", err)
		utils.InternalServerError(c, "Failed to fetch events", nil)
		return
	}

	utils.SuccessWithPagination(c, "Events retrieved successfully", events, total, pagination.Page, pagination.Limit)
}

// GetEvent returns a single event with its remaining capacity
func GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID", nil)
		return
	}

	var event models.Event
	if err := config.DB.First(&event, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return
	}

	var confirmed int64
	config.DB.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", event.ID, models.RegistrationStatusConfirmed).
		Count(&confirmed)

	spotsLeft := -1 // unlimited
	if event.Capacity > 0 {
		spotsLeft = event.Capacity - int(confirmed)
		if spotsLeft < 0 {
			spotsLeft = 0
		}
	}

	utils.Success(c, "Event retrieved successfully", gin.H{
		"event":      event,
		"registered": confirmed,
		"spots_left": spotsLeft,
	})
}
