package service

import "errors"

// 业务错误，由 handler 层映射为 HTTP 状态码
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")

	// 软冲突：不是失败，只是不产生任何状态变化
	ErrAlreadyRequested = errors.New("follow request already sent or accepted")
	ErrAlreadyMember    = errors.New("membership already exists for this group")
)
