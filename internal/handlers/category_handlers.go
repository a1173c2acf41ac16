package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"stroymart/internal/common"
	"stroymart/internal/repositories"
	"stroymart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	catalogSvc services.CatalogService
	storageSvc services.StorageService
	logger     *zap.Logger
}

func NewCategoryHandlers(catalogSvc services.CatalogService, storageSvc services.StorageService, logger *zap.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		catalogSvc: catalogSvc,
		storageSvc: storageSvc,
		logger:     logger,
	}
}

// GetCategoryTree returns the active category tree. With
// ?with_counts=true every node carries its aggregated product count.
func (h *CategoryHandlers) GetCategoryTree(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("with_counts") == "true" {
		tree, err := h.catalogSvc.CategoryTreeWithCounts(ctx)
		if err != nil {
			h.logger.Error("category tree with counts failed", zap.Error(err))
			return common.SendServerError(c, "Failed to load categories")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"categories": tree})
	}

	tree, err := h.catalogSvc.CategoryTree(ctx)
	if err != nil {
		h.logger.Error("category tree failed", zap.Error(err))
		return common.SendServerError(c, "Failed to load categories")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": tree})
}

// GetProductCount returns the aggregated available-product count for one
// category. A failed count is an error response, never a zero.
func (h *CategoryHandlers) GetProductCount(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "category id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	count, err := h.catalogSvc.ProductCount(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "Category")
		}
		h.logger.Error("product count failed", zap.String("category_id", id.String()), zap.Error(err))
		return common.SendServerError(c, "Product count unavailable")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"category_id":   id,
		"product_count": count,
	})
}

// CreateCategoryPathRequest represents the path-based category creation payload
type CreateCategoryPathRequest struct {
	Path          string  `json:"path" validate:"required"`
	ParentID      *string `json:"parent_id"`
	NameSecondary string  `json:"name_secondary"`
}

// CreateCategoryPath creates the missing segments of a "/"-delimited
// category path, reusing existing segments.
func (h *CategoryHandlers) CreateCategoryPath(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCategoryPathRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := common.ValidateUUID(*req.ParentID, "parent_id")
		if err != nil {
			return common.SendValidationError(c, "parent_id", err.Error())
		}
		parentID = &id
	}

	category, err := h.catalogSvc.ResolveCategoryPath(ctx, req.Path, parentID, req.NameSecondary)
	if err != nil {
		if errors.Is(err, services.ErrEmptyPath) {
			return common.SendValidationError(c, "path", "path must contain at least one segment")
		}
		h.logger.Error("category path resolution failed", zap.String("path", req.Path), zap.Error(err))
		return common.SendServerError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// UploadCategoryIcon stores a category icon in object storage and saves
// its URL on the category row.
func (h *CategoryHandlers) UploadCategoryIcon(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "category id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("icon")
	if err != nil {
		return common.SendClientError(c, "Icon file is required")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read icon file")
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s%s", id.String(), filepath.Ext(file.Filename))
	if err := h.storageSvc.EnsureBucketExists(ctx, services.CategoryIconBucket); err != nil {
		h.logger.Error("bucket check failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store icon")
	}
	contentType := file.Header.Get("Content-Type")
	if err := h.storageSvc.Upload(ctx, services.CategoryIconBucket, objectName, src, file.Size, contentType); err != nil {
		h.logger.Error("icon upload failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store icon")
	}

	url, err := h.storageSvc.GetPresignedURL(ctx, services.CategoryIconBucket, objectName, 7*24*time.Hour)
	if err != nil {
		h.logger.Error("icon url generation failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store icon")
	}

	if err := h.catalogSvc.SetCategoryIcon(ctx, id, url); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "Category")
		}
		h.logger.Error("icon save failed", zap.Error(err))
		return common.SendServerError(c, "Failed to store icon")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"icon_url": url})
}

// DeactivateCategory soft-removes a category from the storefront.
func (h *CategoryHandlers) DeactivateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "category id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.catalogSvc.DeactivateCategory(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "Category")
		}
		h.logger.Error("category deactivation failed", zap.Error(err))
		return common.SendServerError(c, "Failed to deactivate category")
	}

	return c.NoContent(http.StatusNoContent)
}
