package service

import (
	"errors"
	"fmt"
	"time"

	"connectly/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Send 发送关注请求
// 无记录时创建 pending 行；已拒绝的行复用（重置回 pending）；
// pending/accepted 时不做任何修改，返回 ErrAlreadyRequested 软冲突。
func (s *FollowService) Send(fromUserID, toUserID uuid.UUID) error {
	if toUserID == uuid.Nil {
		return fmt.Errorf("%w: target user is required", ErrInvalidInput)
	}
	if fromUserID == toUserID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidInput)
	}

	var existing model.FollowRequest
	err := s.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		First(&existing).Error

	if err == nil {
		if existing.Status != model.FollowStatusRejected {
			return ErrAlreadyRequested
		}
		// 被拒绝后允许再次发送：复用同一行
		updates := map[string]interface{}{
			"status":       model.FollowStatusPending,
			"created_at":   time.Now(),
			"responded_at": nil,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to re-send follow request: %w", err)
		}
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check follow request: %w", err)
	}

	request := &model.FollowRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     model.FollowStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		// 并发的重复 Send 由 (from,to) 唯一索引挡下，按软冲突处理
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyRequested
		}
		return fmt.Errorf("failed to create follow request: %w", err)
	}

	return nil
}

// Accept 接受关注请求
// 只有请求的接收方可以操作；对非 pending 行同样强制置为 accepted。
func (s *FollowService) Accept(requestID uint, callerID uuid.UUID) error {
	return s.respond(requestID, callerID, model.FollowStatusAccepted)
}

// Reject 拒绝关注请求
func (s *FollowService) Reject(requestID uint, callerID uuid.UUID) error {
	return s.respond(requestID, callerID, model.FollowStatusRejected)
}

func (s *FollowService) respond(requestID uint, callerID uuid.UUID, status string) error {
	var request model.FollowRequest
	err := s.db.Where("id = ? AND to_user_id = ?", requestID, callerID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load follow request: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       status,
		"responded_at": &now,
	}
	if err := s.db.Model(&request).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update follow request: %w", err)
	}

	return nil
}

// Dashboard 关注页聚合：收到的待处理请求、粉丝、关注、发出的待处理请求
func (s *FollowService) Dashboard(userID uuid.UUID) (*model.FollowDashboard, error) {
	queries := []struct {
		column string
		status string
		dest   *[]model.FollowRequest
	}{
		{"to_user_id", model.FollowStatusPending, new([]model.FollowRequest)},
		{"to_user_id", model.FollowStatusAccepted, new([]model.FollowRequest)},
		{"from_user_id", model.FollowStatusAccepted, new([]model.FollowRequest)},
		{"from_user_id", model.FollowStatusPending, new([]model.FollowRequest)},
	}

	for _, q := range queries {
		err := s.db.Where(q.column+" = ? AND status = ?", userID, q.status).
			Order("created_at DESC").
			Find(q.dest).Error
		if err != nil {
			return nil, fmt.Errorf("failed to query follow requests: %w", err)
		}
	}

	// 收集所有涉及的用户，一次查出展示名（避免 N+1）
	userIDs := make(map[uuid.UUID]struct{})
	for _, q := range queries {
		for _, r := range *q.dest {
			userIDs[r.FromUserID] = struct{}{}
			userIDs[r.ToUserID] = struct{}{}
		}
	}
	names, err := s.loadUserNames(userIDs)
	if err != nil {
		return nil, err
	}

	toEdges := func(requests []model.FollowRequest) []model.FollowEdge {
		edges := make([]model.FollowEdge, 0, len(requests))
		for _, r := range requests {
			edges = append(edges, model.FollowEdge{
				FollowRequest: r,
				FromUserName:  names[r.FromUserID],
				ToUserName:    names[r.ToUserID],
			})
		}
		return edges
	}

	return &model.FollowDashboard{
		IncomingPending: toEdges(*queries[0].dest),
		Followers:       toEdges(*queries[1].dest),
		Following:       toEdges(*queries[2].dest),
		OutgoingPending: toEdges(*queries[3].dest),
	}, nil
}

func (s *FollowService) loadUserNames(userIDs map[uuid.UUID]struct{}) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	ids := make([]uuid.UUID, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}

	var users []model.User
	if err := s.db.Select("id, full_name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names, nil
}
