package service

import (
	"testing"
	"time"

	"connectly/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCreatesPendingRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))

	var requests []model.FollowRequest
	require.NoError(t, db.Find(&requests).Error)
	require.Len(t, requests, 1)
	assert.Equal(t, alice.ID, requests[0].FromUserID)
	assert.Equal(t, bob.ID, requests[0].ToUserID)
	assert.Equal(t, model.FollowStatusPending, requests[0].Status)
	assert.Nil(t, requests[0].RespondedAt)
}

func TestSendRejectsInvalidTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")

	assert.ErrorIs(t, svc.Send(alice.ID, uuid.Nil), ErrInvalidInput)
	assert.ErrorIs(t, svc.Send(alice.ID, alice.ID), ErrInvalidInput)

	var count int64
	require.NoError(t, db.Model(&model.FollowRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendIsNoOpWhilePendingOrAccepted(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	assert.ErrorIs(t, svc.Send(alice.ID, bob.ID), ErrAlreadyRequested)

	var request model.FollowRequest
	require.NoError(t, db.First(&request).Error)
	require.NoError(t, svc.Accept(request.ID, bob.ID))

	assert.ErrorIs(t, svc.Send(alice.ID, bob.ID), ErrAlreadyRequested)

	var count int64
	require.NoError(t, db.Model(&model.FollowRequest{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 状态没有被重复 Send 重置
	require.NoError(t, db.First(&request).Error)
	assert.Equal(t, model.FollowStatusAccepted, request.Status)
}

func TestSendReusesRejectedEdge(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	var original model.FollowRequest
	require.NoError(t, db.First(&original).Error)
	require.NoError(t, svc.Reject(original.ID, bob.ID))

	// 被拒绝后允许重新发送：同一行回到 pending
	require.NoError(t, svc.Send(alice.ID, bob.ID))

	var requests []model.FollowRequest
	require.NoError(t, db.Find(&requests).Error)
	require.Len(t, requests, 1)
	assert.Equal(t, original.ID, requests[0].ID)
	assert.Equal(t, model.FollowStatusPending, requests[0].Status)
	assert.Nil(t, requests[0].RespondedAt)
}

func TestOppositeEdgesAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	require.NoError(t, svc.Send(bob.ID, alice.ID))

	var count int64
	require.NoError(t, db.Model(&model.FollowRequest{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAcceptOnlyByRecipient(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")
	carol := createTestUser(t, db, "Carol")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	var request model.FollowRequest
	require.NoError(t, db.First(&request).Error)

	// 发送方和无关用户都不能接受
	assert.ErrorIs(t, svc.Accept(request.ID, alice.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Accept(request.ID, carol.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Accept(99999, bob.ID), ErrNotFound)

	require.NoError(t, db.First(&request).Error)
	assert.Equal(t, model.FollowStatusPending, request.Status)

	require.NoError(t, svc.Accept(request.ID, bob.ID))
	require.NoError(t, db.First(&request).Error)
	assert.Equal(t, model.FollowStatusAccepted, request.Status)
	require.NotNil(t, request.RespondedAt)
	assert.WithinDuration(t, time.Now(), *request.RespondedAt, 5*time.Second)
}

func TestRejectOnlyByRecipient(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	var request model.FollowRequest
	require.NoError(t, db.First(&request).Error)

	assert.ErrorIs(t, svc.Reject(request.ID, alice.ID), ErrNotFound)

	require.NoError(t, svc.Reject(request.ID, bob.ID))
	require.NoError(t, db.First(&request).Error)
	assert.Equal(t, model.FollowStatusRejected, request.Status)
	assert.NotNil(t, request.RespondedAt)
}

func TestAcceptOverridesNonPendingStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	require.NoError(t, svc.Send(alice.ID, bob.ID))
	var request model.FollowRequest
	require.NoError(t, db.First(&request).Error)

	// 已拒绝的请求可以被接收方直接改为接受（无守卫的覆盖）
	require.NoError(t, svc.Reject(request.ID, bob.ID))
	require.NoError(t, svc.Accept(request.ID, bob.ID))

	require.NoError(t, db.First(&request).Error)
	assert.Equal(t, model.FollowStatusAccepted, request.Status)
}

func TestDashboardDirections(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")
	carol := createTestUser(t, db, "Carol")
	dave := createTestUser(t, db, "Dave")

	// bob → alice 已接受（alice 的粉丝）
	require.NoError(t, svc.Send(bob.ID, alice.ID))
	var fromBob model.FollowRequest
	require.NoError(t, db.Where("from_user_id = ?", bob.ID).First(&fromBob).Error)
	require.NoError(t, svc.Accept(fromBob.ID, alice.ID))

	// alice → carol 已接受（alice 的关注）
	require.NoError(t, svc.Send(alice.ID, carol.ID))
	var toCarol model.FollowRequest
	require.NoError(t, db.Where("to_user_id = ?", carol.ID).First(&toCarol).Error)
	require.NoError(t, svc.Accept(toCarol.ID, carol.ID))

	// dave → alice 待处理（收到的请求）
	require.NoError(t, svc.Send(dave.ID, alice.ID))

	// alice → dave 待处理（发出的请求）
	require.NoError(t, svc.Send(alice.ID, dave.ID))

	dashboard, err := svc.Dashboard(alice.ID)
	require.NoError(t, err)

	require.Len(t, dashboard.Followers, 1)
	assert.Equal(t, "Bob", dashboard.Followers[0].FromUserName)

	require.Len(t, dashboard.Following, 1)
	assert.Equal(t, "Carol", dashboard.Following[0].ToUserName)

	require.Len(t, dashboard.IncomingPending, 1)
	assert.Equal(t, "Dave", dashboard.IncomingPending[0].FromUserName)

	require.Len(t, dashboard.OutgoingPending, 1)
	assert.Equal(t, "Dave", dashboard.OutgoingPending[0].ToUserName)
}
