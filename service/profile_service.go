package service

import (
	"errors"
	"fmt"
	"strings"

	"connectly/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// List 用户列表，query 非空时按展示名做大小写不敏感的子串匹配
func (s *ProfileService) List(query string) ([]model.ProfileListItem, error) {
	tx := s.db.Model(&model.User{})

	query = strings.TrimSpace(query)
	if query != "" {
		tx = tx.Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var users []model.User
	if err := tx.Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}

	items := make([]model.ProfileListItem, 0, len(users))
	for _, u := range users {
		items = append(items, model.ProfileListItem{
			ID:              u.ID,
			FullName:        u.FullName,
			Bio:             u.Bio,
			ProfileImageURL: u.ProfileImageURL,
			IsPrivate:       u.IsPrivate,
		})
	}
	return items, nil
}

// Get 用户详情：私密资料只对本人展示完整内容
func (s *ProfileService) Get(profileID, callerID uuid.UUID) (*model.ProfileDetail, error) {
	var user model.User
	err := s.db.Where("id = ?", profileID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	detail := &model.ProfileDetail{
		ID:          user.ID,
		FullName:    user.FullName,
		IsPrivate:   user.IsPrivate,
		IsSelf:      callerID == user.ID,
		CanViewFull: !user.IsPrivate || callerID == user.ID,
	}
	if detail.CanViewFull {
		detail.Bio = user.Bio
		detail.ProfileImageURL = user.ProfileImageURL
	}
	return detail, nil
}

// Edit 编辑本人资料
func (s *ProfileService) Edit(callerID uuid.UUID, fullName, bio, imageURL string, isPrivate bool) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	bio = strings.TrimSpace(bio)
	imageURL = strings.TrimSpace(imageURL)

	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if len(fullName) > 100 {
		return nil, fmt.Errorf("%w: full name must be at most 100 characters", ErrInvalidInput)
	}
	if len(bio) > 280 {
		return nil, fmt.Errorf("%w: bio must be at most 280 characters", ErrInvalidInput)
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: profile image URL is required", ErrInvalidInput)
	}

	var user model.User
	err := s.db.Where("id = ?", callerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	updates := map[string]interface{}{
		"full_name":         fullName,
		"bio":               bio,
		"profile_image_url": imageURL,
		"is_private":        isPrivate,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}
