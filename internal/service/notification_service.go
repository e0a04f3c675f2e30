package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
)

const notificationBufferSize = 16

// NotificationService fans dashboard events out to connected members over
// SSE and relays them between nodes through NATS.
type NotificationService interface {
	FormActivated(ctx context.Context, form models.Form)
	AnnouncementCreated(ctx context.Context, announcement models.Announcement)
	Subscribe(role string) (<-chan dto.NotificationEvent, func())
	Start(ctx context.Context)
}

type notificationService struct {
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
	broker  *notificationBroker
	nodeID  string
	now     func() time.Time
}

// wireEvent wraps a notification with its routing metadata for the NATS leg.
type wireEvent struct {
	Source      string                `json:"source"`
	Event       dto.NotificationEvent `json:"event"`
	Target      string                `json:"target"`
	TargetRoles []string              `json:"target_roles"`
}

type subscriber struct {
	ch   chan dto.NotificationEvent
	role string
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.NotificationEvent]subscriber
}

// NewNotificationService constructs the notification fan-out. A nil NATS
// connection keeps fan-out process-local.
func NewNotificationService(natsConn *nats.Conn, subject string, logger zerolog.Logger) NotificationService {
	return &notificationService{
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "notification_service").Logger(),
		broker: &notificationBroker{
			subscribers: make(map[chan dto.NotificationEvent]subscriber),
		},
		nodeID: uuid.NewString(),
		now:    time.Now,
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.nats == nil || s.subject == "" {
		return
	}

	sub, err := s.nats.Subscribe(s.subject, func(msg *nats.Msg) {
		s.handleRemote(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to notification subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification subscription")
		}
	}()
}

func (s *notificationService) FormActivated(ctx context.Context, form models.Form) {
	event := wireEvent{
		Source: s.nodeID,
		Event: dto.NotificationEvent{
			Kind:     dto.NotificationFormActivated,
			Title:    form.Title,
			EntityID: form.ID,
			Target:   form.Target,
			SentAt:   s.now().UTC(),
		},
		Target:      form.Target,
		TargetRoles: form.TargetRoles,
	}
	s.dispatch(event)
}

func (s *notificationService) AnnouncementCreated(ctx context.Context, announcement models.Announcement) {
	event := wireEvent{
		Source: s.nodeID,
		Event: dto.NotificationEvent{
			Kind:     dto.NotificationAnnouncementCreated,
			Title:    announcement.Title,
			EntityID: announcement.ID,
			SentAt:   s.now().UTC(),
		},
		Target: models.FormTargetAll,
	}
	s.dispatch(event)
}

func (s *notificationService) Subscribe(role string) (<-chan dto.NotificationEvent, func()) {
	channel := make(chan dto.NotificationEvent, notificationBufferSize)
	s.broker.subscribe(channel, role)

	cleanup := func() {
		s.broker.unsubscribe(channel)
	}

	return channel, cleanup
}

func (s *notificationService) dispatch(event wireEvent) {
	s.broker.broadcast(event)

	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode notification event")
		return
	}
	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification event")
	}
}

func (s *notificationService) handleRemote(payload []byte) {
	var event wireEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	s.broker.broadcast(event)
}

func (b *notificationBroker) subscribe(ch chan dto.NotificationEvent, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = subscriber{ch: ch, role: role}
}

func (b *notificationBroker) unsubscribe(ch chan dto.NotificationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// broadcast delivers the event to every connected subscriber whose role the
// event targets. Slow subscribers drop events rather than block the rest.
func (b *notificationBroker) broadcast(event wireEvent) {
	routing := models.Form{
		Target:      event.Target,
		TargetRoles: datatypes.NewJSONSlice(event.TargetRoles),
	}
	if routing.Target == "" {
		routing.Target = models.FormTargetAll
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, sub := range b.subscribers {
		if !routing.Targets(sub.role) {
			continue
		}
		select {
		case ch <- event.Event:
		default:
		}
	}
}
