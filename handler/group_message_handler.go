package handler

import (
	"connectly/middleware"
	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
)

type GroupMessageHandler struct {
	msgSvc *service.GroupMessageService
}

func NewGroupMessageHandler(msgSvc *service.GroupMessageService) *GroupMessageHandler {
	return &GroupMessageHandler{msgSvc: msgSvc}
}

// PostMessage 在群组内发消息
func (h *GroupMessageHandler) PostMessage(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groupID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	message, err := h.msgSvc.Post(groupID, callerID, req.Title, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "message posted", gin.H{"message": message})
}

// EditMessage 编辑消息（作者或版主）
func (h *GroupMessageHandler) EditMessage(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	messageID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.msgSvc.Edit(messageID, callerID, req.Content); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "message updated", nil)
}

// DeleteMessage 删除消息（作者或版主）
func (h *GroupMessageHandler) DeleteMessage(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	messageID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.msgSvc.Delete(messageID, callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "message deleted", nil)
}
