package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"stroymart/internal/common"
	"stroymart/internal/models"
	"stroymart/internal/repositories"
	"stroymart/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandlers struct {
	productRepo repositories.ProductRepository
	storageSvc  services.StorageService
	logger      *zap.Logger
}

func NewProductHandlers(productRepo repositories.ProductRepository, storageSvc services.StorageService, logger *zap.Logger) *ProductHandlers {
	return &ProductHandlers{
		productRepo: productRepo,
		storageSvc:  storageSvc,
		logger:      logger,
	}
}

// ListProductsRequest represents query parameters for listing products
type ListProductsRequest struct {
	Query      string `query:"q"`
	CategoryID string `query:"category_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListProductsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)
	available := true
	filter := &models.ProductSearchFilter{
		Query:     req.Query,
		Available: &available,
		Limit:     limit,
		Offset:    offset,
	}
	if req.CategoryID != "" {
		id, err := common.ValidateUUID(req.CategoryID, "category_id")
		if err != nil {
			return common.SendValidationError(c, "category_id", err.Error())
		}
		filter.CategoryID = &id
	}

	products, err := h.productRepo.List(ctx, filter)
	if err != nil {
		h.logger.Error("product list failed", zap.Error(err))
		return common.SendServerError(c, "Failed to list products")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	UnitPrice   string  `json:"unit_price" validate:"required"`
	HasDelivery bool    `json:"has_delivery"`
	IsRental    bool    `json:"is_rental"`
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	categoryID, err := common.ValidateUUID(req.CategoryID, "category_id")
	if err != nil {
		return common.SendValidationError(c, "category_id", err.Error())
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || unitPrice.LessThanOrEqual(decimal.Zero) {
		return common.SendValidationError(c, "unit_price", "unit price must be a positive number")
	}

	product := &models.Product{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   unitPrice,
		IsAvailable: true,
		HasDelivery: req.HasDelivery,
		IsRental:    req.IsRental,
	}
	if err := h.productRepo.Create(ctx, product); err != nil {
		h.logger.Error("product create failed", zap.Error(err))
		return common.SendServerError(c, "Failed to create product")
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		h.logger.Error("product fetch failed", zap.Error(err))
		return common.SendServerError(c, "Failed to load product")
	}
	return c.JSON(http.StatusOK, product)
}

// UploadProductImage stores a product image in object storage and saves
// its URL on the product row.
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "Image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read image file")
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s%s", id.String(), filepath.Ext(file.Filename))
	if err := h.storageSvc.EnsureBucketExists(ctx, services.ProductImageBucket); err != nil {
		h.logger.Error("bucket check failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store image")
	}
	contentType := file.Header.Get("Content-Type")
	if err := h.storageSvc.Upload(ctx, services.ProductImageBucket, objectName, src, file.Size, contentType); err != nil {
		h.logger.Error("image upload failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store image")
	}

	url, err := h.storageSvc.GetPresignedURL(ctx, services.ProductImageBucket, objectName, 7*24*time.Hour)
	if err != nil {
		h.logger.Error("image url generation failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store image")
	}

	if err := h.productRepo.SetImageURL(ctx, id, url); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		h.logger.Error("image save failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store image")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"image_url": url})
}
