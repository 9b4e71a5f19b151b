package notification

import (
	"context"
	"time"
)

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) error
	CreateBatch(ctx context.Context, ns []Notification) error
	List(ctx context.Context, filter ListFilter) ([]Notification, int, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, ids []string, now time.Time) error
	MarkAllAsRead(ctx context.Context, recipientID string, now time.Time) error
	Delete(ctx context.Context, recipientID, id string) error

	GetPreferences(ctx context.Context, recipientID string) ([]Preference, error)
	UpsertPreference(ctx context.Context, pref Preference) error
}
