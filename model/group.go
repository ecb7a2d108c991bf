package model

import (
	"time"

	"github.com/google/uuid"
)

// 群组成员状态
const (
	MemberStatusPending  = "pending"
	MemberStatusAccepted = "accepted"
)

// 群组成员角色
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
)

// Group 群组表
type Group struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(120);not null"`
	Description string    `json:"description" gorm:"type:varchar(500);not null"`
	CreatedByID uuid.UUID `json:"created_by_id" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// 成员随群组级联删除；消息的外键是 RESTRICT，
	// 删群组时必须先显式删除消息行（见 GroupService.Delete）。
	Members  []GroupMember  `json:"members,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Messages []GroupMessage `json:"messages,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:RESTRICT"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupMember 群组成员表
// 每个 (group, user) 对最多一行。退出或被拒绝时整行删除，而不是改状态。
type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_group_member_group_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_member_group_user"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:member"`    // 'member' | 'moderator'
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:pending"` // 'pending' | 'accepted'
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// GroupMessage 群组消息表
type GroupMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"` // 作者
	Title     string    `json:"title" gorm:"type:varchar(200)"`
	Content   string    `json:"content" gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (GroupMessage) TableName() string {
	return "group_messages"
}

// GroupListItem 群组列表项（带当前用户的成员关系）
type GroupListItem struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	MemberCount      int    `json:"member_count"`                // 仅统计已接受成员
	MembershipStatus string `json:"membership_status,omitempty"` // 当前用户的状态，无成员关系时为空
	IsModerator      bool   `json:"is_moderator"`
}

// GroupMemberView 成员展示项
type GroupMemberView struct {
	GroupMember
	FullName string `json:"full_name"`
}

// GroupMessageView 消息展示项
type GroupMessageView struct {
	GroupMessage
	AuthorName string `json:"author_name"`
}

// GroupDetails 群组详情聚合视图
type GroupDetails struct {
	ID               uint               `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	CreatedByName    string             `json:"created_by_name"`
	CreatedAt        time.Time          `json:"created_at"`
	MembershipStatus string             `json:"membership_status,omitempty"`
	Role             string             `json:"role,omitempty"`
	Members          []GroupMemberView  `json:"members"`         // 已接受成员
	PendingMembers   []GroupMemberView  `json:"pending_members"` // 待审批成员（版主视角）
	Messages         []GroupMessageView `json:"messages"`        // 按时间倒序
}
