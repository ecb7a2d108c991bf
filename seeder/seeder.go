package seeder

import (
	"errors"
	"fmt"
	"log"

	"connectly/model"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoAccount 演示账号，邮箱和密码固定，其余字段用假数据填充
type demoAccount struct {
	email     string
	password  string
	isPrivate bool
}

var demoAccounts = []demoAccount{
	{email: "admin@connectly.local", password: "Admin1!", isPrivate: false},
	{email: "maria@connectly.local", password: "User1!", isPrivate: false},
	{email: "andrei@connectly.local", password: "User2!", isPrivate: true},
}

// Run 写入演示数据：幂等，已存在的邮箱会被跳过
func Run(db *gorm.DB) error {
	gofakeit.Seed(0)

	var users []model.User
	for _, account := range demoAccounts {
		user, err := seedUser(db, account)
		if err != nil {
			return err
		}
		users = append(users, *user)
	}

	if err := seedGroup(db, users[0]); err != nil {
		return err
	}

	log.Println("Demo data seeded")
	return nil
}

func seedUser(db *gorm.DB, account demoAccount) (*model.User, error) {
	var existing model.User
	err := db.Where("email = ?", account.email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := &model.User{
		Email:           account.email,
		PasswordHash:    string(hash),
		FullName:        gofakeit.Name(),
		Bio:             gofakeit.Sentence(8),
		ProfileImageURL: gofakeit.ImageURL(200, 200),
		IsPrivate:       account.isPrivate,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	return user, nil
}

func seedGroup(db *gorm.DB, creator model.User) error {
	var count int64
	err := db.Model(&model.Group{}).
		Where("created_by_id = ?", creator.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check demo group: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		group := &model.Group{
			Name:        gofakeit.HackerNoun() + " club",
			Description: gofakeit.Sentence(10),
			CreatedByID: creator.ID,
		}
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("failed to create demo group: %w", err)
		}

		member := &model.GroupMember{
			GroupID: group.ID,
			UserID:  creator.ID,
			Role:    model.RoleModerator,
			Status:  model.MemberStatusAccepted,
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("failed to create demo membership: %w", err)
		}
		return nil
	})
}
