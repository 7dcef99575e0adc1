package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
	"github.com/excellent-grade/gradetest-api/internal/service"
)

// UserHandler handles admin user management requests.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRequest is the user create/update body.
type UserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Surname  string `json:"surname" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required"`
	Note     string `json:"izoh" binding:"omitempty,max=500"`
	IsActive *bool  `json:"is_active"`
}

// UserListResponse is the paginated user listing body.
type UserListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// ListUsers handles GET /users with page and limit query parameters.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	users, total, err := h.userService.ListUsers(page, limit)
	if err != nil {
		helper.Error(c, err)
		return
	}

	helper.Data(c, http.StatusOK, UserListResponse{
		Items: users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.GetUint("userID"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, user)
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.CreateUser(service.UserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		Note:     req.Note,
		IsActive: req.IsActive,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.GetUint("userID"), service.UserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		Note:     req.Note,
		IsActive: req.IsActive,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.GetUint("userID")); err != nil {
		helper.Error(c, err)
		return
	}
	helper.Message(c, http.StatusOK, "user deleted")
}
