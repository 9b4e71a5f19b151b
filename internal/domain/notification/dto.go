package notification

import (
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

// CreateRequest is what producers hand to the Notifier.
type CreateRequest struct {
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Data        map[string]any
}

func (r CreateRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RecipientID) {
		errs.Add("recipient_id", "is required")
	}
	if !r.Type.Valid() {
		errs.Add("type", ErrInvalidType.Error())
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "is required")
	}
	return errs.Err()
}

type MarkAsReadRequest struct {
	IDs []string `json:"notification_ids"`
}

func (r MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.IDs) == 0 {
		errs.Add("notification_ids", "at least one id is required")
	}
	return errs.Err()
}

type UpdatePreferenceRequest struct {
	Type    Type `json:"type"`
	Enabled bool `json:"enabled"`
}

func (r UpdatePreferenceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Type.Valid() {
		errs.Add("type", ErrInvalidType.Error())
	}
	return errs.Err()
}

type ListFilter struct {
	RecipientID string
	UnreadOnly  bool
	Page        int
	PageSize    int
}

// Normalize applies paging defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
}

// Event is pushed to live subscribers.
type Event struct {
	Event string       `json:"event"`
	Data  Notification `json:"data"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// SSETokenResponse carries a short-lived token for the event stream.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
