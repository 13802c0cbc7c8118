package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// EventRequest represents the admin create/update event body
type EventRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	StartsAt    time.Time       `json:"starts_at" binding:"required"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
}

func (r *EventRequest) validate() utils.FieldValidationErrors {
	errs := utils.FieldValidationErrors{}
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, utils.FieldValidationError{Field: "title", Message: "Title is required"})
	}
	if r.Capacity < 0 {
		errs = append(errs, utils.FieldValidationError{Field: "capacity", Message: "Capacity cannot be negative"})
	}
	if r.Price.IsNegative() {
		errs = append(errs, utils.FieldValidationError{Field: "price", Message: "Price cannot be negative"})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateEvent handles POST /admin/events
func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if errs := req.validate(); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}

	event := models.Event{
		Title:       utils.SanitizeString(req.Title),
		Description: utils.SanitizeString(req.Description),
		Location:    utils.SanitizeString(req.Location),
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		Price:       req.Price,
		IsActive:    true,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&event).Error; err != nil {
		utils.LogError("Failed to create event: %v", err)
		utils.InternalServerError(c, "Failed to create event", nil)
		return
	}

	utils.LogInfo("Event created: %s (id %d)", event.Title, event.ID)
	utils.Created(c, "Event created successfully", gin.H{"event": event})
}

// UpdateEvent handles PUT /admin/events/:id. Capacity may not be lowered
// below the number of confirmed registrations.
func UpdateEvent(c *gin.Context) {
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

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if errs := req.validate(); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}

	if req.Capacity > 0 {
		var confirmed int64
		config.DB.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", event.ID, models.RegistrationStatusConfirmed).
			Count(&confirmed)
		if int64(req.Capacity) < confirmed {
			utils.BadRequest(c, "Capacity cannot be lower than current registrations", gin.H{"confirmed": confirmed})
			return
		}
	}

	event.Title = utils.SanitizeString(req.Title)
	event.Description = utils.SanitizeString(req.Description)
	event.Location = utils.SanitizeString(req.Location)
	event.StartsAt = req.StartsAt
	event.Capacity = req.Capacity
	event.Price = req.Price
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&event).Error; err != nil {
		utils.LogError("Failed to update event %d: %v", event.ID, err)
		utils.InternalServerError(c, "Failed to update event", nil)
		return
	}

	utils.LogInfo("Event updated: %s (id %d)", event.Title, event.ID)
	utils.Success(c, "Event updated successfully", gin.H{"event": event})
}

// DeleteEvent handles DELETE /admin/events/:id. Soft delete; registrations
// are kept for the attendance record.
func DeleteEvent(c *gin.Context) {
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

	if err := config.DB.Delete(&event).Error; err != nil {
		utils.LogError("Failed to delete event %d: %v", event.ID, err)
		utils.InternalServerError(c, "Failed to delete event", nil)
		return
	}

	utils.LogInfo("Event deleted: %s (id %d)", event.Title, event.ID)
	utils.Success(c, "Event deleted successfully", nil)
}

// ListEventRegistrations handles GET /admin/events/:id/registrations
func ListEventRegistrations(c *gin.Context) {
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

	var registrations []models.Registration
	if err := config.DB.Preload("User").
		Where("event_id = ?", event.ID).Order("created_at asc").
		Find(&registrations).Error; err != nil {
		utils.LogError("Failed to fetch registrations for event %d: %v", event.ID, err)
		utils.InternalServerError(c, "Failed to fetch registrations", nil)
		return
	}

	var waitlist []models.WaitlistEntry
	if err := config.DB.Preload("User").
		Where("event_id = ?", event.ID).Order("position asc").
		Find(&waitlist).Error; err != nil {
		utils.LogError("Failed to fetch waitlist for event %d: %v", event.ID, err)
		utils.InternalServerError(c, "Failed to fetch waitlist", nil)
		return
	}

	utils.Success(c, "Registrations retrieved successfully", gin.H{
		"event":         event,
		"registrations": registrations,
		"waitlist":      waitlist,
	})
}
