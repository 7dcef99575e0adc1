package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
	"github.com/excellent-grade/gradetest-api/internal/middleware"
	"github.com/excellent-grade/gradetest-api/internal/service"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRequest is the user self-registration body.
type RegisterRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Surname string `json:"surname" binding:"required,min=1,max=100"`
	Phone   string `json:"phone" binding:"required"`
}

// UserLoginRequest is the phone-only user login body.
type UserLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// AdminLoginRequest is the email-and-password admin login body.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by all auth endpoints. Unlike the rest of the API
// it is flat, not wrapped in the data envelope.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        interface{} `json:"user"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.RegisterUser(service.RegisterInput{
		Name:    req.Name,
		Surname: req.Surname,
		Phone:   req.Phone,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{AccessToken: token, User: user})
}

// LoginUser handles POST /auth/login/user.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.LoginUser(req.Phone)
	if err != nil {
		helper.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: user})
}

// LoginAdmin handles POST /auth/login/admin.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.LoginAdmin(req.Email, req.Password)
	if err != nil {
		helper.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AccessToken: token, User: user})
}

// Me handles GET /auth/me and returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	user, err := h.userService.GetUser(userID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, user)
}
