package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

func NewCategoryHandler(
	categoryService *services.CategoryService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
		metrics:         metrics,
	}
}

// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Category name"
// @Param image formData file true "Category image"
// @Success 201 {object} successResponse "Category created"
// @Failure 400 {object} errorResponse "Invalid request or name taken"
// @Router /api/categories [post]
func (h *CategoryHandler) Add(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Image file is required")
		return
	}
	image, err := readUpload(fileHeader)
	if err != nil {
		h.logger.Error("Failed to read uploaded image", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Failed to read image")
		return
	}

	ok, err := h.categoryService.Add(c.Request.Context(), payload.Email, services.AddCategoryInput{
		Name:      c.PostForm("name"),
		Image:     image,
		ImageName: fileHeader.Filename,
	})
	if err != nil {
		h.logger.Error("Failed to create category", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "Category name is already taken")
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Category created successfully", nil)
}

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} successResponse "Categories found"
// @Router /api/categories [get]
func (h *CategoryHandler) GetAll(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	categories, err := h.categoryService.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Categories found", categories)
}

// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} successResponse "Category found"
// @Failure 404 {object} errorResponse "Category not found"
// @Router /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get category", map[string]interface{}{
			"error":       err.Error(),
			"category_id": id,
		})
		newErrorResponse(c, http.StatusNotFound, "Category not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Category found", category)
}

// @Summary Rename a category
// @Tags categories
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Category ID"
// @Param name formData string true "New category name"
// @Param image formData file false "Replacement image"
// @Success 200 {object} successResponse "Category updated"
// @Failure 404 {object} errorResponse "Category not found"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	in := services.UpdateCategoryInput{
		CategoryID: id,
		Name:       c.PostForm("name"),
	}
	if fileHeader, err := c.FormFile("image"); err == nil {
		image, err := readUpload(fileHeader)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Failed to read image")
			return
		}
		in.Image = image
		in.ImageName = fileHeader.Filename
	}

	ok, err := h.categoryService.Update(c.Request.Context(), payload.Email, in)
	if err != nil {
		h.logger.Error("Failed to update category", map[string]interface{}{
			"error":       err.Error(),
			"category_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Category not found or name taken")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Category updated successfully", nil)
}

// @Summary Replace a category image
// @Tags categories
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Category ID"
// @Param image formData file true "New image"
// @Success 200 {object} successResponse "Image replaced"
// @Failure 404 {object} errorResponse "Category not found"
// @Router /api/categories/{id}/image [patch]
func (h *CategoryHandler) UpdateImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Image file is required")
		return
	}
	image, err := readUpload(fileHeader)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Failed to read image")
		return
	}

	ok, err := h.categoryService.UpdateImage(c.Request.Context(), payload.Email, id, image, fileHeader.Filename)
	if err != nil {
		h.logger.Error("Failed to update category image", map[string]interface{}{
			"error":       err.Error(),
			"category_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update category image")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Category not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Category image updated successfully", nil)
}

// @Summary Delete a category
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} successResponse "Category deleted"
// @Failure 404 {object} errorResponse "Category not found"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ok, err := h.categoryService.Delete(c.Request.Context(), payload.Email, id)
	if err != nil {
		h.logger.Error("Failed to delete category", map[string]interface{}{
			"error":       err.Error(),
			"category_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Category not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}
