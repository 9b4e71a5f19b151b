package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo    notification.NotificationRepository
	hub     *sse.Hub[notification.Event]
	metrics *metrics.Metrics
	config  Config
	now     func() time.Time

	queue    chan notification.CreateRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub[notification.Event], m *metrics.Metrics, cfg Config) notification.NotificationService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if hub == nil {
		hub = sse.NewHub[notification.Event](0)
	}

	s := &service{
		repo:    repo,
		hub:     hub,
		metrics: m,
		config:  cfg,
		now:     time.Now,
		queue:   make(chan notification.CreateRequest, cfg.QueueSize),
		stopCh:  make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)
	return s
}

// worker batches queued requests and flushes on size, on the ticker and on stop.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = s.build(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("failed to store notification batch", "worker", id, "count", len(notifications), "error", err)
			for range notifications {
				s.metrics.Notification("failed")
			}
		} else {
			slog.Debug("stored notification batch", "worker", id, "count", len(notifications))
			for _, n := range notifications {
				s.metrics.Notification("stored")
				s.publish(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
		drain:
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					break drain
				}
			}
			flush()
			return
		}
	}
}

// QueueNotification queues a notification for async processing. Muted types are dropped
// silently; a full queue falls back to a direct insert.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateRequest) error {
	if s.stopped.Load() {
		return notification.ErrStopped
	}
	if err := req.Validate(); err != nil {
		return err
	}

	enabled, err := s.enabled(ctx, req.RecipientID, req.Type)
	if err != nil {
		return fmt.Errorf("failed to read notification preferences: %w", err)
	}
	if !enabled {
		s.metrics.Notification("muted")
		return nil
	}

	select {
	case s.queue <- req:
		s.metrics.Notification("queued")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if err := s.directInsert(ctx, req); err != nil {
			s.metrics.Notification("dropped")
			return fmt.Errorf("%w: %v", notification.ErrQueueFull, err)
		}
		return nil
	}
}

func (s *service) enabled(ctx context.Context, recipientID string, t notification.Type) (bool, error) {
	prefs, err := s.repo.GetPreferences(ctx, recipientID)
	if err != nil {
		return false, err
	}
	for _, p := range prefs {
		if p.Type == t {
			return p.Enabled, nil
		}
	}
	return true, nil
}

// directInsert stores a notification synchronously when the queue is full
func (s *service) directInsert(ctx context.Context, req notification.CreateRequest) error {
	n := s.build(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.metrics.Notification("stored")
	s.publish(n)
	return nil
}

func (s *service) build(req notification.CreateRequest) notification.Notification {
	return notification.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   s.now(),
	}
}

func (s *service) publish(n notification.Notification) {
	s.hub.Publish(n.RecipientID, notification.Event{Event: "notification", Data: n})
}

func (s *service) List(ctx context.Context, filter notification.ListFilter) (notification.ListResponse, error) {
	filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return notification.ListResponse{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, filter.RecipientID)
	if err != nil {
		return notification.ListResponse{}, err
	}
	if items == nil {
		items = []notification.Notification{}
	}

	return notification.ListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

func (s *service) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, recipientID, req.IDs, s.now())
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID, s.now())
}

func (s *service) Delete(ctx context.Context, recipientID, id string) error {
	return s.repo.Delete(ctx, recipientID, id)
}

// GetPreferences returns one entry per notification type; types never set are enabled.
func (s *service) GetPreferences(ctx context.Context, recipientID string) ([]notification.Preference, error) {
	prefs, err := s.repo.GetPreferences(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	byType := make(map[notification.Type]notification.Preference, len(prefs))
	for _, p := range prefs {
		byType[p.Type] = p
	}

	all := notification.AllTypes()
	out := make([]notification.Preference, len(all))
	for i, t := range all {
		if p, ok := byType[t]; ok {
			out[i] = p
			continue
		}
		out[i] = notification.Preference{RecipientID: recipientID, Type: t, Enabled: true}
	}
	return out, nil
}

func (s *service) UpdatePreference(ctx context.Context, recipientID string, req notification.UpdatePreferenceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.UpsertPreference(ctx, notification.Preference{
		RecipientID: recipientID,
		Type:        req.Type,
		Enabled:     req.Enabled,
		UpdatedAt:   s.now(),
	})
}

// Subscribe streams notifications for recipientID until ctx is done or cleanup runs.
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.Event, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.Event, 10)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes pending batches and waits for the workers. Later calls are no-ops.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
