package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-editor-be/internal/model"
	"ai-editor-be/internal/pkg/logger"
	"ai-editor-be/internal/repository"
	"ai-editor-be/internal/websocket"
	"ai-editor-be/pkg/events"
	pkgNats "ai-editor-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RealtimeDelivery defines how to push real-time frames to connected
// browsers. Implemented by the websocket Hub.
type RealtimeDelivery interface {
	Send(userID uuid.UUID, frame websocket.Frame)
	Broadcast(frame websocket.Frame)
}

// notificationRule maps one bus event type onto an inbox notification.
// {placeholder} slots in the template are filled from the event payload.
type notificationRule struct {
	Title     string
	Template  string
	Broadcast bool // push-only announcement, no row per user
}

var notificationRules = map[string]notificationRule{
	events.TypeDocumentIndexed: {
		Title:    "Document indexed",
		Template: "Your document is searchable again ({chunks} sections indexed).",
	},
	events.TypeAssistCompleted: {
		Title:    "Writing assistant finished",
		Template: "The {action} action finished and replaced your selection.",
	},
	events.TypeUserLogin: {
		Title:    "New login",
		Template: "New login to your account from {device} at {time}.",
	},
	events.TypeSystemBroadcast: {
		Title:     "Announcement",
		Template:  "{message}",
		Broadcast: true,
	},
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pkgNats.Subscriber
	delivery   RealtimeDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pkgNats.Subscriber, delivery RealtimeDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry an "events." prefix the type codes don't.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	rule, known := notificationRules[typeCode]
	if !known {
		// Not every bus event becomes an inbox entry.
		s.logger.Debug("NotificationService", fmt.Sprintf("No notification rule for event '%s'", typeCode), nil)
		return nil
	}

	if rule.Broadcast {
		// Announcements are push-only: one row per user would not scale and
		// a missed announcement is not worth an inbox entry.
		notif := s.buildNotification(uuid.Nil, typeCode, rule, event)
		if s.delivery != nil {
			s.delivery.Broadcast(websocket.Frame{Type: "notification", Data: notif})
		}
		return nil
	}

	userID, err := recipientFromPayload(event)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("No recipient in payload for event %s", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}

	notif := s.buildNotification(userID, typeCode, rule, event)

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
		return err // NATS will retry if we return error
	}

	if s.delivery != nil {
		s.delivery.Send(userID, websocket.Frame{Type: "notification", Data: notif})
	}

	return nil
}

// recipientFromPayload reads the owning user from the event payload. Every
// per-user event on the bus carries user_id by convention.
func recipientFromPayload(event events.Event) (uuid.UUID, error) {
	uidStr, ok := event.Payload()["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("payload has no user_id")
	}
	return uuid.Parse(uidStr)
}

func (s *NotificationService) buildNotification(userID uuid.UUID, typeCode string, rule notificationRule, event events.Event) model.Notification {
	// Simple template engine: {key} placeholders filled from the payload.
	msg := rule.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		valStr := fmt.Sprintf("%v", v)
		msg = strings.ReplaceAll(msg, placeholder, valStr)
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typeCode,
		Title:     rule.Title,
		Message:   msg,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
