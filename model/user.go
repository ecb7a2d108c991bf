package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户表（身份与个人资料）
type User struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email           string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName        string    `json:"full_name" gorm:"type:varchar(100);not null"`
	Bio             string    `json:"bio" gorm:"type:varchar(280)"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"type:varchar(500)"`
	IsPrivate       bool      `json:"is_private" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate 应用层生成主键，postgres 和 sqlite（测试）通用
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ProfileListItem 用户列表项
type ProfileListItem struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Bio             string    `json:"bio"`
	ProfileImageURL string    `json:"profile_image_url"`
	IsPrivate       bool      `json:"is_private"`
}

// ProfileDetail 用户详情（包含隐私可见性）
type ProfileDetail struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Bio             string    `json:"bio"`
	ProfileImageURL string    `json:"profile_image_url"`
	IsPrivate       bool      `json:"is_private"`
	CanViewFull     bool      `json:"can_view_full"`
	IsSelf          bool      `json:"is_self"`
}
