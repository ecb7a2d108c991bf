package service

import (
	"fmt"
	"strings"
	"testing"

	"connectly/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存 sqlite 库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 单连接，保证共享内存库在测试期间一直存在
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.FollowRequest{},
		&model.Group{},
		&model.GroupMember{},
		&model.GroupMessage{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        strings.ToLower(name) + "@test.local",
		PasswordHash: "not-a-real-hash",
		FullName:     name,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, svc *GroupService, creator *model.User, name string) *model.Group {
	t.Helper()

	group, err := svc.Create(creator.ID, name, "a group for testing")
	require.NoError(t, err)
	return group
}

func addMember(t *testing.T, db *gorm.DB, groupID uint, user *model.User, role, status string) *model.GroupMember {
	t.Helper()

	member := &model.GroupMember{
		GroupID: groupID,
		UserID:  user.ID,
		Role:    role,
		Status:  status,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}
