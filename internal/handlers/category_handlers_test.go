package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stroymart/internal/models"
	"stroymart/internal/repositories"
	"stroymart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CategoryTree(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogService) CategoryTreeWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CategoryWithCount), args.Error(1)
}

func (m *MockCatalogService) ProductCount(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) ResolveCategoryPath(ctx context.Context, path string, parentID *uuid.UUID, secondaryName string) (*models.Category, error) {
	args := m.Called(ctx, path, parentID, secondaryName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) SetCategoryIcon(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockCatalogService) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func newCategoryHandlersTest() (*CategoryHandlers, *MockCatalogService, *MockStorageService) {
	catalogSvc := new(MockCatalogService)
	storageSvc := new(MockStorageService)
	return NewCategoryHandlers(catalogSvc, storageSvc, zap.NewNop()), catalogSvc, storageSvc
}

func TestGetProductCount_Success(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	categoryID := uuid.New()
	catalogSvc.On("ProductCount", mock.Anything, categoryID).Return(int64(42), nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(categoryID.String())

	err := h.GetProductCount(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["product_count"])
}

func TestGetProductCount_FailureIsErrorNotZero(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	categoryID := uuid.New()
	catalogSvc.On("ProductCount", mock.Anything, categoryID).
		Return(int64(0), errors.New("count backend down"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(categoryID.String())

	err := h.GetProductCount(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "product_count")
}

func TestGetProductCount_UnknownCategory(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	categoryID := uuid.New()
	catalogSvc.On("ProductCount", mock.Anything, categoryID).
		Return(int64(0), repositories.ErrCategoryNotFound)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(categoryID.String())

	err := h.GetProductCount(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductCount_InvalidID(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetProductCount(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalogSvc.AssertNotCalled(t, "ProductCount", mock.Anything, mock.Anything)
}

func TestGetCategoryTree_WithCounts(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	catalogSvc.On("CategoryTreeWithCounts", mock.Anything).Return([]*models.CategoryWithCount{
		{Category: models.Category{ID: uuid.New(), NamePrimary: "Electrical"}, ProductCount: 3},
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?with_counts=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetCategoryTree(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_count")
	catalogSvc.AssertNotCalled(t, "CategoryTree", mock.Anything)
}

func TestCreateCategoryPath_EmptyPathRejected(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	catalogSvc.On("ResolveCategoryPath", mock.Anything, " ", (*uuid.UUID)(nil), "").
		Return(nil, services.ErrEmptyPath)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"path":" "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateCategoryPath(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCategoryPath_Success(t *testing.T) {
	h, catalogSvc, _ := newCategoryHandlersTest()
	created := &models.Category{ID: uuid.New(), NamePrimary: "Conditioners", NameSecondary: "Kondisionerlar"}
	catalogSvc.On("ResolveCategoryPath", mock.Anything, "Electrical/Conditioners", (*uuid.UUID)(nil), "Kondisionerlar").
		Return(created, nil)

	e := echo.New()
	body := `{"path":"Electrical/Conditioners","name_secondary":"Kondisionerlar"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateCategoryPath(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conditioners")
}
