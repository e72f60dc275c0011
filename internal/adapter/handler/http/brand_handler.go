package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/services"
)

type BrandHandler struct {
	brandService *services.BrandService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewBrandHandler(
	brandService *services.BrandService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
		logger:       logger,
		metrics:      metrics,
	}
}

// @Summary Create a brand
// @Description Uploads the brand logo and registers the brand
// @Tags brands
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Brand name"
// @Param image formData file true "Brand logo"
// @Success 201 {object} successResponse "Brand created"
// @Failure 400 {object} errorResponse "Invalid request or name taken"
// @Router /api/brands [post]
func (h *BrandHandler) Add(c *gin.Context) {
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

	ok, err := h.brandService.Add(c.Request.Context(), payload.Email, services.AddBrandInput{
		Name:      c.PostForm("name"),
		Image:     image,
		ImageName: fileHeader.Filename,
	})
	if err != nil {
		h.logger.Error("Failed to create brand", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to create brand")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "Brand name is already taken")
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Brand created successfully", nil)
}

// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {object} successResponse "Brands found"
// @Router /api/brands [get]
func (h *BrandHandler) GetAll(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	brands, err := h.brandService.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list brands")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Brands found", brands)
}

// @Summary Get a brand
// @Tags brands
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} successResponse "Brand found"
// @Failure 404 {object} errorResponse "Brand not found"
// @Router /api/brands/{id} [get]
func (h *BrandHandler) GetByID(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get brand", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		newErrorResponse(c, http.StatusNotFound, "Brand not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Brand found", brand)
}

// @Summary Rename a brand
// @Tags brands
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Brand ID"
// @Param name formData string true "New brand name"
// @Param image formData file false "Replacement logo"
// @Success 200 {object} successResponse "Brand updated"
// @Failure 400 {object} errorResponse "Invalid request or name taken"
// @Failure 404 {object} errorResponse "Brand not found"
// @Router /api/brands/{id} [put]
func (h *BrandHandler) Update(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	in := services.UpdateBrandInput{
		BrandID: id,
		Name:    c.PostForm("name"),
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

	ok, err := h.brandService.Update(c.Request.Context(), payload.Email, in)
	if err != nil {
		h.logger.Error("Failed to update brand", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update brand")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Brand not found or name taken")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Brand updated successfully", nil)
}

// @Summary Replace a brand logo
// @Tags brands
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Brand ID"
// @Param image formData file true "New logo"
// @Success 200 {object} successResponse "Logo replaced"
// @Failure 404 {object} errorResponse "Brand not found"
// @Router /api/brands/{id}/image [patch]
func (h *BrandHandler) UpdateImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
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

	ok, err := h.brandService.UpdateImage(c.Request.Context(), payload.Email, id, image, fileHeader.Filename)
	if err != nil {
		h.logger.Error("Failed to update brand image", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update brand image")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Brand not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Brand image updated successfully", nil)
}

// @Summary Delete a brand
// @Tags brands
// @Security BearerAuth
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} successResponse "Brand deleted"
// @Failure 404 {object} errorResponse "Brand not found"
// @Router /api/brands/{id} [delete]
func (h *BrandHandler) Delete(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	ok, err := h.brandService.Delete(c.Request.Context(), payload.Email, id)
	if err != nil {
		h.logger.Error("Failed to delete brand", map[string]interface{}{
			"error":    err.Error(),
			"brand_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to delete brand")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Brand not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Brand deleted successfully", nil)
}
