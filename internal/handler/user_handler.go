package handler

import (
	"github.com/gin-gonic/gin"

	"assistant-go/internal/middleware"
	"assistant-go/internal/service"
	"assistant-go/pkg/log"
)

// UserHandler handles registration, login and session endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// Register handles POST /users/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := h.userService.Register(req.Username, req.Password, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Infof("user '%s' registered", user.Username)
	respondCreated(c, gin.H{"id": user.ID, "username": user.Username})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	pair, user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         gin.H{"id": user.ID, "username": user.Username},
	})
}

// Profile handles GET /users/me.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.Profile(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"language": user.Language,
	})
}

// Logout handles POST /users/logout. The current access token is
// blacklisted for the rest of its validity.
func (h *UserHandler) Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.CtxToken)
	if err := h.userService.Logout(c.Request.Context(), tokenString); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh handles POST /auth/refreshToken.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refreshToken is required")
		return
	}

	pair, err := h.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pair)
}
