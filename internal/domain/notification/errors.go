package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrQueueFull            = errors.New("notification queue is full")
	ErrStopped              = errors.New("notification service stopped")
)
