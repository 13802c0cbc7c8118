package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// AdminListUsers handles GET /admin/users
func AdminListUsers(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	utils.SuccessWithPagination(c, "Users retrieved successfully", users, total, pagination.Page, pagination.Limit)
}

// BlockUser handles PUT /admin/users/:id/block. Blocked users cannot log in.
func BlockUser(c *gin.Context) {
	setUserBlocked(c, true, "User blocked successfully")
}

// UnblockUser handles PUT /admin/users/:id/unblock
func UnblockUser(c *gin.Context) {
	setUserBlocked(c, false, "User unblocked successfully")
}

func setUserBlocked(c *gin.Context, blocked bool, message string) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.IsAdmin {
		utils.Forbidden(c, "Admin accounts cannot be blocked")
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		utils.LogError("Failed to update block state for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	utils.LogInfo("User %d block state set to %t", user.ID, blocked)
	utils.Success(c, message, gin.H{"user": user})
}
