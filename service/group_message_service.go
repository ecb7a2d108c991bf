package service

import (
	"errors"
	"fmt"
	"strings"

	"connectly/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupMessageService struct {
	db *gorm.DB
}

func NewGroupMessageService(db *gorm.DB) *GroupMessageService {
	return &GroupMessageService{db: db}
}

// Post 发布群组消息：要求已接受的成员关系（任意角色）
func (s *GroupMessageService) Post(groupID uint, callerID uuid.UUID, title, content string) (*model.GroupMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}
	if len(content) > 1000 {
		return nil, fmt.Errorf("%w: message must be at most 1000 characters", ErrInvalidInput)
	}

	isMember, err := s.isAcceptedMember(groupID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	message := &model.GroupMessage{
		GroupID: groupID,
		UserID:  callerID,
		Title:   strings.TrimSpace(title),
		Content: content,
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return message, nil
}

// Edit 编辑消息：作者本人，或该群的已接受版主
func (s *GroupMessageService) Edit(messageID uint, callerID uuid.UUID, content string) error {
	message, err := s.loadAuthorized(messageID, callerID)
	if err != nil {
		return err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}
	if len(content) > 1000 {
		return fmt.Errorf("%w: message must be at most 1000 characters", ErrInvalidInput)
	}

	if err := s.db.Model(message).Update("content", content).Error; err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// Delete 删除消息：与 Edit 相同的授权规则
func (s *GroupMessageService) Delete(messageID uint, callerID uuid.UUID) error {
	message, err := s.loadAuthorized(messageID, callerID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(message).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// loadAuthorized 加载消息并校验"作者或版主"
func (s *GroupMessageService) loadAuthorized(messageID uint, callerID uuid.UUID) (*model.GroupMessage, error) {
	var message model.GroupMessage
	if err := s.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}

	if message.UserID == callerID {
		return &message, nil
	}

	isMod, err := s.isModerator(message.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMod {
		return nil, ErrForbidden
	}
	return &message, nil
}

func (s *GroupMessageService) isAcceptedMember(groupID uint, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND status = ?",
			groupID, userID, model.MemberStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

func (s *GroupMessageService) isModerator(groupID uint, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND role = ? AND status = ?",
			groupID, userID, model.RoleModerator, model.MemberStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check moderator: %w", err)
	}
	return count > 0, nil
}
