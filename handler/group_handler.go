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

type GroupHandler struct {
	groupSvc *service.GroupService
}

func NewGroupHandler(groupSvc *service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建群组
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupSvc.Create(callerID, req.Name, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "group created", gin.H{"group": group})
}

// ListGroups 群组列表
func (h *GroupHandler) ListGroups(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groups, err := h.groupSvc.List(callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"groups": groups})
}

// GetGroup 群组详情
func (h *GroupHandler) GetGroup(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groupID, ok := parseID(c)
	if !ok {
		return
	}

	details, err := h.groupSvc.Details(groupID, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"group": details})
}

// Join 申请加入群组
func (h *GroupHandler) Join(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groupID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Join(groupID, callerID); err != nil {
		// 已有成员关系（任何状态）不算失败
		if errors.Is(err, service.ErrAlreadyMember) {
			utils.SuccessWithMessage(c, "you already have a membership for this group", nil)
			return
		}
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "join request sent to moderator", nil)
}

// Leave 退出群组
func (h *GroupHandler) Leave(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groupID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Leave(groupID, callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "you left the group", nil)
}

// ApproveMember 批准待审批成员（版主）
func (h *GroupHandler) ApproveMember(c *gin.Context) {
	h.moderate(c, h.groupSvc.ApproveMember, "member accepted")
}

// RejectMember 拒绝待审批成员（版主）
func (h *GroupHandler) RejectMember(c *gin.Context) {
	h.moderate(c, h.groupSvc.RejectMember, "request declined")
}

func (h *GroupHandler) moderate(c *gin.Context, action func(uint, uuid.UUID) error, message string) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	membershipID, ok := parseID(c)
	if !ok {
		return
	}

	if err := action(membershipID, callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, message, nil)
}

// DeleteGroup 删除群组（版主）
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	groupID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(groupID, callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "group deleted", nil)
}

// parseID 解析路径中的 :id，失败时直接写 400
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
