package notification

import (
	"context"
)

// Notifier is the fire-and-forget side-channel used by the financial services.
// Callers log a returned error and carry on.
type Notifier interface {
	QueueNotification(ctx context.Context, req CreateRequest) error
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID, id string) error
	GetPreferences(ctx context.Context, recipientID string) ([]Preference, error)
	UpdatePreference(ctx context.Context, recipientID string, req UpdatePreferenceRequest) error

	// Subscribe streams newly stored notifications until ctx ends or cleanup is called.
	Subscribe(ctx context.Context, recipientID string) (<-chan Event, func())
	Stop()
}
