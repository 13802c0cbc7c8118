package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// ProductRequest represents the admin create/update product body
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

func (r *ProductRequest) validate() utils.FieldValidationErrors {
	errs := utils.FieldValidationErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, utils.FieldValidationError{Field: "name", Message: "Name is required"})
	}
	if r.Price.IsNegative() {
		errs = append(errs, utils.FieldValidationError{Field: "price", Message: "Price cannot be negative"})
	}
	if r.Stock < 0 {
		errs = append(errs, utils.FieldValidationError{Field: "stock", Message: "Stock cannot be negative"})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateProduct handles POST /admin/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if errs := req.validate(); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}

	product := models.Product{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
		Price:       req.Price,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    utils.SanitizeString(req.Category),
		Stock:       req.Stock,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}

	utils.LogInfo("Product created: %s (id %d)", product.Name, product.ID)
	utils.Created(c, "Product created successfully", gin.H{"product": product})
}

// UpdateProduct handles PUT /admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if errs := req.validate(); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}

	product.Name = utils.SanitizeString(req.Name)
	product.Description = utils.SanitizeString(req.Description)
	product.Price = req.Price
	product.ImageURL = strings.TrimSpace(req.ImageURL)
	product.Category = utils.SanitizeString(req.Category)
	product.Stock = req.Stock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}

	utils.LogInfo("Product updated: %s (id %d)", product.Name, product.ID)
	utils.Success(c, "Product updated successfully", gin.H{"product": product})
}

// DeleteProduct handles DELETE /admin/products/:id. Soft delete; existing
// order items keep their snapshot of the product.
func DeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	if err := config.DB.Delete(&product).Error; err != nil {
		utils.LogError("Failed to delete product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to delete product", nil)
		return
	}

	utils.LogInfo("Product deleted: %s (id %d)", product.Name, product.ID)
	utils.Success(c, "Product deleted successfully", nil)
}

// AdminListProducts handles GET /admin/products, including inactive items
func AdminListProducts(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Product{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", products, total, pagination.Page, pagination.Limit)
}
