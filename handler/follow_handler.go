package handler

import (
	"errors"
	"strconv"

	"connectly/middleware"
	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FollowHandler struct {
	followSvc *service.FollowService
}

func NewFollowHandler(followSvc *service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

// Dashboard 关注页：收到的请求、粉丝、关注、发出的请求
func (h *FollowHandler) Dashboard(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	dashboard, err := h.followSvc.Dashboard(callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, dashboard)
}

// Send 发送关注请求
func (h *FollowHandler) Send(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.followSvc.Send(callerID, req.ToUserID); err != nil {
		// 重复发送不算失败，不改变任何状态
		if errors.Is(err, service.ErrAlreadyRequested) {
			utils.SuccessWithMessage(c, "request already sent or accepted", nil)
			return
		}
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "follow request sent", nil)
}

// Accept 接受关注请求
func (h *FollowHandler) Accept(c *gin.Context) {
	h.respond(c, h.followSvc.Accept, "follow request accepted")
}

// Reject 拒绝关注请求
func (h *FollowHandler) Reject(c *gin.Context) {
	h.respond(c, h.followSvc.Reject, "follow request rejected")
}

func (h *FollowHandler) respond(c *gin.Context, action func(uint, uuid.UUID) error, message string) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "invalid request id")
		return
	}

	if err := action(uint(requestID), callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, message, nil)
}
