package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
	"gorm.io/gorm"
)

// RegisterForEvent signs the authenticated user up for an event. When the
// event is at capacity the user is placed on the waitlist instead.
func RegisterForEvent(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

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
	if !event.IsActive || event.StartsAt.Before(time.Now()) {
		utils.BadRequest(c, "Registration for this event is closed", nil)
		return
	}

	// A row may already exist from an earlier cancelled registration; the
	// unique (user, event) index means we revive it rather than insert.
	var existing models.Registration
	hasRow := config.DB.Where("user_id = ? AND event_id = ?", user.ID, event.ID).
		First(&existing).Error == nil
	if hasRow && existing.Status == models.RegistrationStatusConfirmed {
		utils.Conflict(c, "You are already registered for this event", nil)
		return
	}

	waitlisted := false
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var confirmed int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND status = ?", event.ID, models.RegistrationStatusConfirmed).
			Count(&confirmed).Error; err != nil {
			return err
		}

		if event.Capacity > 0 && int(confirmed) >= event.Capacity {
			var queued int64
			if err := tx.Model(&models.WaitlistEntry{}).
				Where("event_id = ?", event.ID).Count(&queued).Error; err != nil {
				return err
			}
			waitlisted = true
			return tx.Create(&models.WaitlistEntry{
				UserID:   user.ID,
				EventID:  event.ID,
				Position: int(queued) + 1,
			}).Error
		}

		if hasRow {
			return tx.Model(&existing).
				Update("status", models.RegistrationStatusConfirmed).Error
		}
		return tx.Create(&models.Registration{
			UserID:  user.ID,
			EventID: event.ID,
			Status:  models.RegistrationStatusConfirmed,
		}).Error
	})
	if err != nil {
		utils.LogError("Failed to register user %d for event %d: %v", user.ID, event.ID, err)
		utils.InternalServerError(c, "Failed to register for event", nil)
		return
	}

	if waitlisted {
		utils.LogInfo("User %d waitlisted for event %d", user.ID, event.ID)
		utils.Success(c, "Event is full. You've been added to the waitlist.", gin.H{
			"event_id":   event.ID,
			"waitlisted": true,
		})
		return
	}

	utils.LogInfo("User %d registered for event %d", user.ID, event.ID)
	go func() {
		if err := utils.SendRegistrationConfirmation(user.Email, event.Title, event.StartsAt.Format("January 2, 2006")); err != nil {
			utils.LogError("Failed to send registration confirmation to %s: %v", user.Email, err)
		}
	}()

	utils.Created(c, "Registration successful", gin.H{
		"event_id":   event.ID,
		"waitlisted": false,
	})
}

// CancelRegistration cancels the user's registration and promotes the first
// waitlist entry, if any.
func CancelRegistration(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid event ID", nil)
		return
	}

	var registration models.Registration
	if err := config.DB.Where("user_id = ? AND event_id = ? AND status = ?",
		user.ID, eventID, models.RegistrationStatusConfirmed).First(&registration).Error; err != nil {
		utils.NotFound(c, "Registration not found")
		return
	}

	var promoted *models.WaitlistEntry
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&registration).
			Update("status", models.RegistrationStatusCancelled).Error; err != nil {
			return err
		}

		var entry models.WaitlistEntry
		if err := tx.Where("event_id = ?", eventID).
			Order("position asc").First(&entry).Error; err != nil {
			return nil // empty waitlist, nothing to promote
		}

		var prior models.Registration
		if tx.Where("user_id = ? AND event_id = ?", entry.UserID, entry.EventID).
			First(&prior).Error == nil {
			if err := tx.Model(&prior).
				Update("status", models.RegistrationStatusConfirmed).Error; err != nil {
				return err
			}
		} else if err := tx.Create(&models.Registration{
			UserID:  entry.UserID,
			EventID: entry.EventID,
			Status:  models.RegistrationStatusConfirmed,
		}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		promoted = &entry
		return nil
	})
	if err != nil {
		utils.LogError("Failed to cancel registration %d: %v", registration.ID, err)
		utils.InternalServerError(c, "Failed to cancel registration", nil)
		return
	}

	if promoted != nil {
		var promotedUser models.User
		var event models.Event
		if config.DB.First(&promotedUser, promoted.UserID).Error == nil &&
			config.DB.First(&event, promoted.EventID).Error == nil {
			go func() {
				if err := utils.SendWaitlistNotification(promotedUser.Email, event.Title); err != nil {
					utils.LogError("Failed to notify promoted user %d: %v", promotedUser.ID, err)
				}
			}()
		}
	}

	utils.Success(c, "Registration cancelled", nil)
}

// ListMyRegistrations returns the authenticated user's registrations
func ListMyRegistrations(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var registrations []models.Registration
	if err := config.DB.Preload("Event").
		Where("user_id = ?", user.ID).Find(&registrations).Error; err != nil {
		utils.LogError("Failed to fetch registrations for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch registrations", nil)
		return
	}

	utils.Success(c, "Registrations retrieved successfully", gin.H{
		"registrations": registrations,
	})
}
