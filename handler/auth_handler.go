package handler

import (
	"errors"
	"strings"

	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.authSvc.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			utils.Conflict(c, err.Error())
			return
		}
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "registered successfully", gin.H{"user": user})
}

// Login 登录，返回 JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	token, user, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.Unauthorized(c, err.Error())
			return
		}
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"token": token, "user": user})
}

// Logout 登出：吊销当前 Token
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		if err := h.authSvc.Logout(c.Request.Context(), parts[1]); err != nil {
			handleServiceError(c, err)
			return
		}
	}

	utils.SuccessWithMessage(c, "logged out", nil)
}
