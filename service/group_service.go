package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"connectly/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Create 创建群组，创建者在同一事务内写入 moderator/accepted 成员行
func (s *GroupService) Create(callerID uuid.UUID, name, description string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > 120 {
		return nil, fmt.Errorf("%w: name must be at most 120 characters", ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(description) > 500 {
		return nil, fmt.Errorf("%w: description must be at most 500 characters", ErrInvalidInput)
	}

	group := &model.Group{
		Name:        name,
		Description: description,
		CreatedByID: callerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		creator := &model.GroupMember{
			GroupID: group.ID,
			UserID:  callerID,
			Role:    model.RoleModerator,
			Status:  model.MemberStatusAccepted,
		}
		if err := tx.Create(creator).Error; err != nil {
			return fmt.Errorf("failed to create creator membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// List 群组列表（带当前用户的成员关系）
func (s *GroupService) List(callerID uuid.UUID) ([]model.GroupListItem, error) {
	var groups []model.Group
	if err := s.db.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	if len(groups) == 0 {
		return []model.GroupListItem{}, nil
	}

	groupIDs := make([]uint, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
	}

	// 已接受成员数，一次分组统计
	type memberCount struct {
		GroupID uint
		Count   int
	}
	var counts []memberCount
	err := s.db.Model(&model.GroupMember{}).
		Select("group_id, COUNT(*) AS count").
		Where("group_id IN ? AND status = ?", groupIDs, model.MemberStatusAccepted).
		Group("group_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	countByGroup := make(map[uint]int, len(counts))
	for _, c := range counts {
		countByGroup[c.GroupID] = c.Count
	}

	// 当前用户的成员行
	var memberships []model.GroupMember
	err = s.db.Where("group_id IN ? AND user_id = ?", groupIDs, callerID).
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	membershipByGroup := make(map[uint]model.GroupMember, len(memberships))
	for _, m := range memberships {
		membershipByGroup[m.GroupID] = m
	}

	items := make([]model.GroupListItem, 0, len(groups))
	for _, g := range groups {
		item := model.GroupListItem{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			MemberCount: countByGroup[g.ID],
		}
		if m, ok := membershipByGroup[g.ID]; ok {
			item.MembershipStatus = m.Status
			item.IsModerator = m.Role == model.RoleModerator && m.Status == model.MemberStatusAccepted
		}
		items = append(items, item)
	}
	return items, nil
}

// Details 群组详情：已接受成员、待审批成员、消息（倒序）
func (s *GroupService) Details(groupID uint, callerID uuid.UUID) (*model.GroupDetails, error) {
	var group model.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	var members []model.GroupMember
	if err := s.db.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	var messages []model.GroupMessage
	err := s.db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	userIDs := map[uuid.UUID]struct{}{group.CreatedByID: {}}
	for _, m := range members {
		userIDs[m.UserID] = struct{}{}
	}
	for _, m := range messages {
		userIDs[m.UserID] = struct{}{}
	}
	names, err := s.loadUserNames(userIDs)
	if err != nil {
		return nil, err
	}

	details := &model.GroupDetails{
		ID:             group.ID,
		Name:           group.Name,
		Description:    group.Description,
		CreatedByName:  names[group.CreatedByID],
		CreatedAt:      group.CreatedAt,
		Members:        []model.GroupMemberView{},
		PendingMembers: []model.GroupMemberView{},
		Messages:       make([]model.GroupMessageView, 0, len(messages)),
	}

	for _, m := range members {
		view := model.GroupMemberView{GroupMember: m, FullName: names[m.UserID]}
		if m.UserID == callerID {
			details.MembershipStatus = m.Status
			details.Role = m.Role
		}
		if m.Status == model.MemberStatusAccepted {
			details.Members = append(details.Members, view)
		} else {
			details.PendingMembers = append(details.PendingMembers, view)
		}
	}
	sort.Slice(details.Members, func(i, j int) bool {
		return details.Members[i].FullName < details.Members[j].FullName
	})

	for _, m := range messages {
		details.Messages = append(details.Messages, model.GroupMessageView{
			GroupMessage: m,
			AuthorName:   names[m.UserID],
		})
	}

	return details, nil
}

// Join 申请加入群组
// 任何状态的已有成员行都算"已有成员关系"，返回 ErrAlreadyMember 软冲突。
func (s *GroupService) Join(groupID uint, callerID uuid.UUID) error {
	var group model.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load group: %w", err)
	}

	var count int64
	err := s.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, callerID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return ErrAlreadyMember
	}

	membership := &model.GroupMember{
		GroupID: groupID,
		UserID:  callerID,
		Role:    model.RoleMember,
		Status:  model.MemberStatusPending,
	}
	if err := s.db.Create(membership).Error; err != nil {
		// 并发的重复 Join 由 (group,user) 唯一索引挡下
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

// Leave 退出群组：删除成员行；没有成员行时静默成功。
// 最后一名版主也可以退出，群组会因此没有版主（沿用原有行为）。
func (s *GroupService) Leave(groupID uint, callerID uuid.UUID) error {
	err := s.db.Where("group_id = ? AND user_id = ?", groupID, callerID).
		Delete(&model.GroupMember{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

// ApproveMember 版主批准待审批成员：只改 status，role 保持不变
func (s *GroupService) ApproveMember(membershipID uint, callerID uuid.UUID) error {
	membership, err := s.loadModeratedMembership(membershipID, callerID)
	if err != nil {
		return err
	}

	err = s.db.Model(membership).Update("status", model.MemberStatusAccepted).Error
	if err != nil {
		return fmt.Errorf("failed to approve member: %w", err)
	}
	return nil
}

// RejectMember 版主拒绝待审批成员：整行删除（与关注请求的拒绝不同，不留记录）
func (s *GroupService) RejectMember(membershipID uint, callerID uuid.UUID) error {
	membership, err := s.loadModeratedMembership(membershipID, callerID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(membership).Error; err != nil {
		return fmt.Errorf("failed to reject member: %w", err)
	}
	return nil
}

func (s *GroupService) loadModeratedMembership(membershipID uint, callerID uuid.UUID) (*model.GroupMember, error) {
	var membership model.GroupMember
	if err := s.db.First(&membership, membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	isMod, err := s.isModerator(membership.GroupID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMod {
		return nil, ErrForbidden
	}
	return &membership, nil
}

// Delete 删除群组
// messages 外键不级联，必须在同一事务里先删消息、再删成员、最后删群组。
func (s *GroupService) Delete(groupID uint, callerID uuid.UUID) error {
	var group model.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load group: %w", err)
	}

	isMod, err := s.isModerator(groupID, callerID)
	if err != nil {
		return err
	}
	if !isMod {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&model.GroupMessage{}).Error; err != nil {
			return fmt.Errorf("failed to delete group messages: %w", err)
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		if err := tx.Delete(&group).Error; err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}

// isModerator 版主判定：每次调用都重新查库，不做缓存
func (s *GroupService) isModerator(groupID uint, userID uuid.UUID) (bool, error) {
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

func (s *GroupService) loadUserNames(userIDs map[uuid.UUID]struct{}) (map[uuid.UUID]string, error) {
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
