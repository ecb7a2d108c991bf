package handler

import (
	"errors"

	"connectly/service"
	"connectly/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError 将业务错误映射为 HTTP 响应
// 软冲突（ErrAlreadyRequested / ErrAlreadyMember）由各 handler 在调用前拦截。
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
