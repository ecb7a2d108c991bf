package model

import (
	"time"

	"github.com/google/uuid"
)

// 关注请求状态
const (
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
	FollowStatusRejected = "rejected"
)

// FollowRequest 关注请求表
// 每个有序用户对 (from, to) 最多一行；A→B 和 B→A 是两条独立的边。
// 不存在行即表示"尚无关系"，被拒绝的行在再次发送时被复用，不会硬删除。
type FollowRequest struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	FromUserID  uuid.UUID  `json:"from_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_from_to"`
	ToUserID    uuid.UUID  `json:"to_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_from_to"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:pending"` // 'pending' | 'accepted' | 'rejected'
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

// FollowEdge 关注边（补充对方用户的展示信息）
type FollowEdge struct {
	FollowRequest
	FromUserName string `json:"from_user_name"`
	ToUserName   string `json:"to_user_name"`
}

// FollowDashboard 关注页聚合视图
type FollowDashboard struct {
	IncomingPending []FollowEdge `json:"incoming_pending"` // 待处理的收到请求
	Followers       []FollowEdge `json:"followers"`        // 已接受、对方关注我
	Following       []FollowEdge `json:"following"`        // 已接受、我关注对方
	OutgoingPending []FollowEdge `json:"outgoing_pending"` // 待处理的发出请求
}
