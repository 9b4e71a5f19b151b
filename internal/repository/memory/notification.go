package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
)

type notificationRepository struct {
	t     *table[notification.Notification]
	prefs *table[notification.Preference]
}

func NewNotificationRepository() notification.NotificationRepository {
	return &notificationRepository{
		t:     newTable[notification.Notification](),
		prefs: newTable[notification.Preference](),
	}
}

func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) error {
	r.t.put(n.ID, n)
	return nil
}

func (r *notificationRepository) CreateBatch(ctx context.Context, ns []notification.Notification) error {
	for _, n := range ns {
		r.t.put(n.ID, n)
	}
	return nil
}

func (r *notificationRepository) forRecipient(recipientID string, unreadOnly bool) []notification.Notification {
	return r.t.filter(func(n notification.Notification) bool {
		return n.RecipientID == recipientID && (!unreadOnly || !n.IsRead)
	}, func(a, b notification.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func (r *notificationRepository) List(ctx context.Context, f notification.ListFilter) ([]notification.Notification, int, error) {
	rows := r.forRecipient(f.RecipientID, f.UnreadOnly)
	total := len(rows)
	return page(rows, f.PageSize, (f.Page-1)*f.PageSize), total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return len(r.forRecipient(recipientID, true)), nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID string, ids []string, now time.Time) error {
	for _, n := range r.forRecipient(recipientID, true) {
		if slices.Contains(ids, n.ID) {
			n.MarkRead(now)
			r.t.put(n.ID, n)
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string, now time.Time) error {
	for _, n := range r.forRecipient(recipientID, true) {
		n.MarkRead(now)
		r.t.put(n.ID, n)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	n, ok := r.t.get(id)
	if !ok || n.RecipientID != recipientID {
		return notification.ErrNotificationNotFound
	}
	r.t.remove(id)
	return nil
}

func prefKey(recipientID string, t notification.Type) string {
	return recipientID + "|" + string(t)
}

func (r *notificationRepository) GetPreferences(ctx context.Context, recipientID string) ([]notification.Preference, error) {
	return r.prefs.filter(func(p notification.Preference) bool {
		return p.RecipientID == recipientID
	}, func(a, b notification.Preference) int {
		return cmp.Compare(a.Type, b.Type)
	}), nil
}

func (r *notificationRepository) UpsertPreference(ctx context.Context, p notification.Preference) error {
	r.prefs.put(prefKey(p.RecipientID, p.Type), p)
	return nil
}
