package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/services"
)

type AutoPartHandler struct {
	autoPartService *services.AutoPartService
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

type LinkVehicleRequest struct {
	AutoPartID int64  `json:"auto_part_id" binding:"required" example:"1"`
	BrandID    int64  `json:"brand_id" binding:"required" example:"3"`
	Model      string `json:"model" binding:"required" example:"Corolla"`
	StartYear  int    `json:"start_year" binding:"required" example:"2015"`
	EndYear    *int   `json:"end_year,omitempty" example:"2019"`
}

func NewAutoPartHandler(
	autoPartService *services.AutoPartService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AutoPartHandler {
	return &AutoPartHandler{
		autoPartService: autoPartService,
		logger:          logger,
		metrics:         metrics,
	}
}

// autoPartForm reads the multipart fields shared by create and update.
type autoPartForm struct {
	Name        string
	Description string
	CategoryID  int64
	Cost        float64
	Price       float64
	Location    string
	BrandIDs    []int64
}

func bindAutoPartForm(c *gin.Context) (*autoPartForm, error) {
	categoryID, err := strconv.ParseInt(c.PostForm("category_id"), 10, 64)
	if err != nil {
		return nil, err
	}
	cost, err := strconv.ParseFloat(c.DefaultPostForm("cost", "0"), 64)
	if err != nil {
		return nil, err
	}
	price, err := strconv.ParseFloat(c.DefaultPostForm("price", "0"), 64)
	if err != nil {
		return nil, err
	}

	var brandIDs []int64
	for _, raw := range c.PostFormArray("brand_ids") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		brandIDs = append(brandIDs, id)
	}

	return &autoPartForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		CategoryID:  categoryID,
		Cost:        cost,
		Price:       price,
		Location:    c.PostForm("location"),
		BrandIDs:    brandIDs,
	}, nil
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// @Summary Create an auto part
// @Description Uploads the part image and registers the part with its brands
// @Tags autoparts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Part name"
// @Param description formData string false "Description"
// @Param category_id formData int true "Category ID"
// @Param cost formData number false "Cost"
// @Param price formData number false "Price"
// @Param location formData string false "Warehouse location"
// @Param brand_ids formData []int false "Brand IDs" collectionFormat(multi)
// @Param image formData file true "Part image"
// @Success 201 {object} successResponse "Part created"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /api/autoparts [post]
func (h *AutoPartHandler) Add(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	form, err := bindAutoPartForm(c)
	if err != nil {
		h.logger.Error("Failed form parse in add auto part", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid form data")
		return
	}

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

	ok, err := h.autoPartService.Add(c.Request.Context(), payload.Email, services.AddAutoPartInput{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Cost:        form.Cost,
		Price:       form.Price,
		Location:    form.Location,
		BrandIDs:    form.BrandIDs,
		Image:       image,
		ImageName:   fileHeader.Filename,
	})
	if err != nil {
		h.logger.Error("Failed to create auto part", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to create auto part")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "Unknown category or brand")
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Auto part created successfully", nil)
}

// @Summary Update an auto part
// @Description Replaces the part's fields and brand set; a new image is optional
// @Tags autoparts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Auto part ID"
// @Param name formData string true "Part name"
// @Param description formData string false "Description"
// @Param category_id formData int true "Category ID"
// @Param cost formData number false "Cost"
// @Param price formData number false "Price"
// @Param location formData string false "Warehouse location"
// @Param brand_ids formData []int false "Brand IDs" collectionFormat(multi)
// @Param image formData file false "Replacement image"
// @Success 200 {object} successResponse "Part updated"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 404 {object} errorResponse "Part not found"
// @Router /api/autoparts/{id} [put]
func (h *AutoPartHandler) Update(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid auto part ID")
		return
	}

	form, err := bindAutoPartForm(c)
	if err != nil {
		h.logger.Error("Failed form parse in update auto part", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	in := services.UpdateAutoPartInput{
		AutoPartID:  id,
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Cost:        form.Cost,
		Price:       form.Price,
		Location:    form.Location,
		BrandIDs:    form.BrandIDs,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		image, err := readUpload(fileHeader)
		if err != nil {
			h.logger.Error("Failed to read uploaded image", map[string]interface{}{
				"error": err.Error(),
			})
			newErrorResponse(c, http.StatusBadRequest, "Failed to read image")
			return
		}
		in.Image = image
		in.ImageName = fileHeader.Filename
	}

	ok, err := h.autoPartService.Update(c.Request.Context(), payload.Email, in)
	if err != nil {
		h.logger.Error("Failed to update auto part", map[string]interface{}{
			"error":        err.Error(),
			"auto_part_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update auto part")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Auto part not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Auto part updated successfully", nil)
}

// @Summary Delete an auto part
// @Description Removes the part; the stored image is deleted on a best-effort basis
// @Tags autoparts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Auto part ID"
// @Success 200 {object} successResponse "Part deleted"
// @Failure 404 {object} errorResponse "Part not found"
// @Router /api/autoparts/{id} [delete]
func (h *AutoPartHandler) Delete(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, _ := getAuthPayload(c, authorizationPayloadKey)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid auto part ID")
		return
	}

	ok, err := h.autoPartService.Delete(c.Request.Context(), payload.Email, id)
	if err != nil {
		h.logger.Error("Failed to delete auto part", map[string]interface{}{
			"error":        err.Error(),
			"auto_part_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to delete auto part")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "Auto part not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Auto part deleted successfully", nil)
}

// @Summary Link a vehicle to an auto part
// @Description Creates or reuses the vehicle described by the fitment tuple and links it to the part
// @Tags autoparts
// @Accept json
// @Produce json
// @Param request body LinkVehicleRequest true "Fitment data"
// @Success 200 {object} successResponse "Vehicle linked"
// @Failure 400 {object} errorResponse "Invalid year range"
// @Failure 404 {object} errorResponse "Part or brand not found"
// @Failure 409 {object} errorResponse "Already linked"
// @Router /api/autoparts/link-vehicle [patch]
func (h *AutoPartHandler) LinkVehicle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LinkVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in link vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	result, err := h.autoPartService.LinkVehicle(c.Request.Context(), "anonymous", services.LinkVehicleInput{
		AutoPartID: req.AutoPartID,
		BrandID:    req.BrandID,
		Model:      req.Model,
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
	})
	if err != nil {
		h.logger.Error("Failed to link vehicle", map[string]interface{}{
			"error":        err.Error(),
			"auto_part_id": req.AutoPartID,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to link vehicle")
		return
	}

	switch result {
	case domain.LinkSuccess:
		newSuccessResponse(c, http.StatusOK, "Vehicle linked successfully", nil)
	case domain.LinkAutoPartNotFound:
		newErrorResponse(c, http.StatusNotFound, "Auto part not found")
	case domain.LinkBrandNotFound:
		newErrorResponse(c, http.StatusNotFound, "Brand not found")
	case domain.LinkInvalidYearRange:
		newErrorResponse(c, http.StatusBadRequest, "End year must not precede start year")
	case domain.LinkAlreadyLinked:
		newErrorResponse(c, http.StatusConflict, "Vehicle is already linked to this part")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "Unexpected link result")
	}
}

// @Summary Get an auto part
// @Tags autoparts
// @Produce json
// @Param id path int true "Auto part ID"
// @Success 200 {object} successResponse "Part found"
// @Failure 404 {object} errorResponse "Part not found"
// @Router /api/autoparts/{id} [get]
func (h *AutoPartHandler) GetByID(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid auto part ID")
		return
	}

	part, err := h.autoPartService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get auto part", map[string]interface{}{
			"error":        err.Error(),
			"auto_part_id": id,
		})
		newErrorResponse(c, http.StatusNotFound, "Auto part not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Auto part found", part)
}

// @Summary List auto parts
// @Description Filters by category, brand, name and description with pagination
// @Tags autoparts
// @Produce json
// @Param category_id query int false "Category ID"
// @Param brand_id query int false "Brand ID"
// @Param name query string false "Name substring"
// @Param description query string false "Description substring"
// @Param page_number query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} successResponse "Parts page"
// @Router /api/autoparts [get]
func (h *AutoPartHandler) List(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	query := domain.AutoPartQuery{
		Name:        c.Query("name"),
		Description: c.Query("description"),
	}
	query.PageNumber, _ = strconv.Atoi(c.DefaultQuery("page_number", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
			return
		}
		query.CategoryID = &id
	}
	if raw := c.Query("brand_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
			return
		}
		query.BrandID = &id
	}

	page, err := h.autoPartService.List(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list auto parts", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list auto parts")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Auto parts found", page)
}
