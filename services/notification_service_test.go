package services

import (
	"context"
	"testing"

	"highfive_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	userEvents []string
}

func (b *recordingBroadcaster) BroadcastToUser(userID, event string, _ interface{}) {
	b.userEvents = append(b.userEvents, userID+":"+event)
}

func (b *recordingBroadcaster) BroadcastToSession(string, string, interface{}) {}

func TestNotifyPersistsAndBroadcasts(t *testing.T) {
	store := newMemStore()
	live := &recordingBroadcaster{}
	svc := NewNotificationService(store, live)
	svc.Now = clockAt(1_000_000)

	svc.Notify(context.Background(), "bob", models.NotificationHighFiveReady, map[string]string{"senderId": "alice"})

	require.Len(t, store.notifications, 1)
	recorded := store.notifications[0]
	assert.NotEmpty(t, recorded.ID)
	assert.Equal(t, "bob", recorded.UserID)
	assert.Equal(t, models.NotificationHighFiveReady, recorded.Kind)
	assert.Equal(t, "alice", recorded.Payload["senderId"])
	assert.Equal(t, int64(1_000_000), recorded.Timestamp)

	assert.Equal(t, []string{"bob:notification"}, live.userEvents)
}
