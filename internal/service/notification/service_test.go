package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payslipReq(recipient string) notification.CreateRequest {
	return notification.CreateRequest{
		RecipientID: recipient,
		Type:        notification.TypePayslipGenerated,
		Title:       "Payslip ready",
		Message:     "Your payslip for 2025-03 is ready",
	}
}

func TestNotificationService_StopFlushesQueue(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, nil, nil, Config{BatchSize: 50, FlushInterval: time.Hour, WorkerCount: 1})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(ctx, payslipReq("emp-1")))
	}
	svc.Stop()

	count, err := repo.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.ErrorIs(t, svc.QueueNotification(ctx, payslipReq("emp-1")), notification.ErrStopped)
	svc.Stop()
}

func TestNotificationService_MutedTypeIsSkipped(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, nil, nil, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1})

	require.NoError(t, svc.UpdatePreference(ctx, "emp-1", notification.UpdatePreferenceRequest{
		Type:    notification.TypePayslipGenerated,
		Enabled: false,
	}))
	require.NoError(t, svc.QueueNotification(ctx, payslipReq("emp-1")))
	svc.Stop()

	count, err := repo.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	prefs, err := svc.GetPreferences(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, prefs, len(notification.AllTypes()))
	for _, p := range prefs {
		assert.Equal(t, p.Type != notification.TypePayslipGenerated, p.Enabled, p.Type)
	}
}

func TestNotificationService_InvalidRequest(t *testing.T) {
	svc := NewNotificationService(memory.NewNotificationRepository(), nil, nil, Config{})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateRequest{RecipientID: "emp-1", Type: "bogus"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestNotificationService_SubscribeReceivesStoredNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := sse.NewHub[notification.Event](4)
	svc := NewNotificationService(memory.NewNotificationRepository(), hub, nil, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	events, cleanup := svc.Subscribe(ctx, "emp-7")
	defer cleanup()
	require.NoError(t, svc.QueueNotification(ctx, payslipReq("emp-7")))

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "emp-7", ev.Data.RecipientID)
		assert.Equal(t, notification.TypePayslipGenerated, ev.Data.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, nil, nil, Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1})
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(ctx, payslipReq("emp-1")))
	}
	svc.Stop()

	page, err := svc.List(ctx, notification.ListFilter{RecipientID: "emp-1", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.UnreadCount)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 1, page.Page)

	require.NoError(t, svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{IDs: []string{page.Notifications[0].ID}}))
	unread, err := svc.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, "emp-1"))
	unread, err = svc.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, svc.Delete(ctx, "emp-2", page.Notifications[0].ID), notification.ErrNotificationNotFound)
	require.NoError(t, svc.Delete(ctx, "emp-1", page.Notifications[0].ID))

	assert.Error(t, svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{}))
}
