package services

import (
	"context"
	"log"
	"time"

	"highfive_server/models"

	"github.com/google/uuid"
)

// Notifier is the capability the rendezvous core uses to inform a user that
// something happened. Implementations are fire-and-forget: failures are
// logged and never propagated, blocked on, or retried.
type Notifier interface {
	Notify(ctx context.Context, targetUserID, kind string, payload map[string]string)
}

// Broadcaster pushes full document snapshots to live subscribers. The socket
// server implements it; services treat it as optional.
type Broadcaster interface {
	BroadcastToUser(userID, event string, payload interface{})
	BroadcastToSession(sessionID, event string, payload interface{})
}

// NotificationService persists a notification record for the push layer to
// drain and mirrors it onto the target user's realtime channel.
type NotificationService struct {
	Store NotificationStore
	Live  Broadcaster
	Now   func() time.Time
}

func NewNotificationService(store NotificationStore, live Broadcaster) *NotificationService {
	return &NotificationService{Store: store, Live: live, Now: time.Now}
}

// Notify implements Notifier.
func (ns *NotificationService) Notify(ctx context.Context, targetUserID, kind string, payload map[string]string) {
	notification := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    targetUserID,
		Kind:      kind,
		Payload:   payload,
		Timestamp: ns.Now().UnixMilli(),
	}
	if ns.Store != nil {
		if err := ns.Store.PutNotification(ctx, notification); err != nil {
			log.Printf("failed to record %s notification for %s: %v", kind, targetUserID, err)
		}
	}
	if ns.Live != nil {
		ns.Live.BroadcastToUser(targetUserID, "notification", notification)
	}
}
