package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// GetCart returns the user's cart with subtotal
func GetCart(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	details, err := utils.GetCartDetails(user.ID)
	if err != nil {
		utils.LogError("Failed to get cart details for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get cart details", nil)
		return
	}

	utils.Success(c, "Cart retrieved successfully", gin.H{
		"items":    details.Items,
		"subtotal": details.Subtotal,
	})
}

// AddToCartRequest represents the add-to-cart request body
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddToCart adds a product to the user's cart or bumps its quantity
func AddToCart(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity <= 0 {
		utils.BadRequest(c, "Quantity must be greater than zero", nil)
		return
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var item models.CartItem
	if err := config.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&item).Error; err == nil {
		item.Quantity += req.Quantity
		if item.Quantity > product.Stock {
			utils.BadRequest(c, fmt.Sprintf("Only %d of '%s' in stock", product.Stock, product.Name), nil)
			return
		}
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart item %d: %v", item.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		if req.Quantity > product.Stock {
			utils.BadRequest(c, fmt.Sprintf("Only %d of '%s' in stock", product.Stock, product.Name), nil)
			return
		}
		item = models.CartItem{UserID: user.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := config.DB.Create(&item).Error; err != nil {
			utils.LogError("Failed to add cart item for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	}

	utils.Success(c, "Cart updated successfully", gin.H{"item": item})
}

// UpdateCartItem sets the quantity of a cart line
func UpdateCartItem(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var item models.CartItem
	if err := config.DB.Preload("Product").
		Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		utils.NotFound(c, "Cart item not found")
		return
	}

	if req.Quantity <= 0 {
		if err := config.DB.Delete(&item).Error; err != nil {
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
		utils.Success(c, "Item removed from cart", nil)
		return
	}

	if req.Quantity > item.Product.Stock {
		utils.BadRequest(c, fmt.Sprintf("Only %d of '%s' in stock", item.Product.Stock, item.Product.Name), nil)
		return
	}

	item.Quantity = req.Quantity
	if err := config.DB.Save(&item).Error; err != nil {
		utils.LogError("Failed to update cart item %d: %v", item.ID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.Success(c, "Cart updated successfully", gin.H{"item": item})
}

// RemoveCartItem deletes a cart line
func RemoveCartItem(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		utils.LogError("Failed to remove cart item %d: %v", itemID, result.Error)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}

	utils.Success(c, "Item removed from cart", nil)
}

// ClearCart empties the user's cart
func ClearCart(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	utils.Success(c, "Cart cleared", nil)
}
