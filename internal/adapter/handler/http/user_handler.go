package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/services"
)

type UserHandler struct {
	userService *services.UserService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"staff@example.com"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email" example:"staff@example.com"`
	Password  string `json:"password" binding:"required" example:"s3cretpass"`
	FirstName string `json:"first_name" binding:"required" example:"Jane"`
	LastName  string `json:"last_name" binding:"required" example:"Doe"`
}

type UpdateUserRequest struct {
	ID        int64  `json:"id" binding:"required" example:"1"`
	Email     string `json:"email" binding:"required,email" example:"staff@example.com"`
	Password  string `json:"password" binding:"required" example:"s3cretpass"`
	FirstName string `json:"first_name" binding:"required" example:"Jane"`
	LastName  string `json:"last_name" binding:"required" example:"Doe"`
}

func NewUserHandler(
	userService *services.UserService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
		metrics:     metrics,
	}
}

// @Summary Log in
// @Description Exchanges email and password for a JWT
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} successResponse "Token issued"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Router /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in login", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Login failed", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Login failed")
		return
	}

	// Unknown email and wrong password both produce an empty token, so the
	// caller cannot probe which accounts exist.
	if token == "" {
		newErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// @Summary Register a staff user
// @Description Creates an account with the default staff role
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "New user data"
// @Success 201 {object} successResponse "User created"
// @Failure 400 {object} errorResponse "Invalid request or email taken"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /api/users [post]
func (h *UserHandler) Signup(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in signup", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ok, err := h.userService.Signup(c.Request.Context(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "Email is already registered")
		return
	}

	newSuccessResponse(c, http.StatusCreated, "User created successfully", nil)
}

// @Summary Update a user
// @Description Replaces the user's email, password and name
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Updated user data"
// @Success 200 {object} successResponse "User updated"
// @Failure 400 {object} errorResponse "Invalid request or email taken"
// @Failure 404 {object} errorResponse "User not found"
// @Router /api/users [put]
func (h *UserHandler) Update(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update user", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	result, err := h.userService.Update(c.Request.Context(), services.UpdateUserInput{
		ID:        req.ID,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Error("Failed to update user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": req.ID,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	switch result {
	case domain.UpdateUserNotFound:
		newErrorResponse(c, http.StatusNotFound, "User not found")
	case domain.UpdateUserEmailExists:
		newErrorResponse(c, http.StatusBadRequest, "Email is already registered")
	default:
		newSuccessResponse(c, http.StatusOK, "User updated successfully", nil)
	}
}

// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page_number query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} successResponse "Users page"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page_number", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	page, err := h.userService.List(c.Request.Context(), pageNumber, pageSize)
	if err != nil {
		h.logger.Error("Failed to list users", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Users found", page)
}

// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} successResponse "User found"
// @Failure 404 {object} errorResponse "User not found"
// @Router /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		newErrorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "User found", user)
}

// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} successResponse "User deleted"
// @Failure 404 {object} errorResponse "User not found"
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ok, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

// @Summary Promote a user to admin
// @Description Grants the admin role; promoting an existing admin is a no-op
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} successResponse "User promoted"
// @Failure 404 {object} errorResponse "User not found"
// @Router /api/users/{id}/promote [patch]
func (h *UserHandler) Promote(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ok, err := h.userService.PromoteToAdmin(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to promote user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to promote user")
		return
	}
	if !ok {
		newErrorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "User promoted to admin", nil)
}
