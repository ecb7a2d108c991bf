package handler

import (
	"connectly/middleware"
	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// ListProfiles 用户列表，支持 ?query= 按展示名搜索
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileSvc.List(c.Query("query"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"profiles": profiles})
}

// GetProfile 用户详情
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "profile not found")
		return
	}

	profile, err := h.profileSvc.Get(profileID, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"profile": profile})
}

// EditProfile 编辑本人资料
func (h *ProfileHandler) EditProfile(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		FullName        string `json:"full_name" binding:"required"`
		Bio             string `json:"bio"`
		ProfileImageURL string `json:"profile_image_url"`
		IsPrivate       bool   `json:"is_private"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.profileSvc.Edit(callerID, req.FullName, req.Bio, req.ProfileImageURL, req.IsPrivate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "profile updated", gin.H{"user": user})
}
