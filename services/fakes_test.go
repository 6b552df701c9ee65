package services

import (
	"context"
	"sync"
	"time"

	"highfive_server/models"
)

// memStore is an in-memory stand-in for DynamoStore with the same
// ErrNotFound / ErrConditionFailed semantics.
type memStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	sessions      map[string]models.HighFiveSession
	highFives     map[string]models.HighFive
	notifications []models.Notification
	sessionPuts   int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]models.User{},
		sessions:  map[string]models.HighFiveSession{},
		highFives: map[string]models.HighFive{},
	}
}

// clockAt returns a frozen clock reading the given unix-millisecond instant.
func clockAt(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

// --- UserStore ---

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *memStore) PutUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memStore) UpdateHeartbeat(_ context.Context, id string, ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.LastHeartbeat = ts
	m.users[id] = user
	return nil
}

func (m *memStore) SetFriends(_ context.Context, id string, friendIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.FriendIDs = friendIDs
	m.users[id] = user
	return nil
}

// --- SessionStore ---

func (m *memStore) GetSession(_ context.Context, id string) (*models.HighFiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (m *memStore) PutSession(_ context.Context, session *models.HighFiveSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	m.sessionPuts++
	return nil
}

func (m *memStore) SetReadySlot(_ context.Context, sessionID string, slot ReadySlot, ready bool, updatedAt int64) (*models.HighFiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if slot == SlotA {
		session.ReadyA = ready
	} else {
		session.ReadyB = ready
	}
	session.LastUpdated = updatedAt
	m.sessions[sessionID] = session
	return &session, nil
}

func (m *memStore) SessionsUpdatedSince(_ context.Context, since int64) ([]models.HighFiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sessions []models.HighFiveSession
	for _, session := range m.sessions {
		if session.LastUpdated >= since {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (m *memStore) SessionsUpdatedBefore(_ context.Context, before int64) ([]models.HighFiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sessions []models.HighFiveSession
	for _, session := range m.sessions {
		if session.LastUpdated < before {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// --- HighFiveStore ---

func (m *memStore) GetHighFive(_ context.Context, id string) (*models.HighFive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highFive, ok := m.highFives[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &highFive, nil
}

func (m *memStore) PutHighFive(_ context.Context, highFive *models.HighFive) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highFives[highFive.ID] = *highFive
	return nil
}

func (m *memStore) MarkMatched(_ context.Context, id string, receiverTimestamp int64) (*models.HighFive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highFive, ok := m.highFives[id]
	if !ok {
		return nil, ErrNotFound
	}
	if highFive.Status != models.StatusPending {
		return nil, ErrConditionFailed
	}
	highFive.Status = models.StatusMatched
	highFive.ReceiverTimestamp = receiverTimestamp
	m.highFives[id] = highFive
	return &highFive, nil
}

func (m *memStore) MarkCompleted(_ context.Context, id string, quality float64) (*models.HighFive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highFive, ok := m.highFives[id]
	if !ok {
		return nil, ErrNotFound
	}
	if highFive.Status != models.StatusMatched {
		return nil, ErrConditionFailed
	}
	highFive.Status = models.StatusCompleted
	highFive.Quality = quality
	m.highFives[id] = highFive
	return &highFive, nil
}

func (m *memStore) MarkExpired(_ context.Context, id string, from string, reason string) (*models.HighFive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highFive, ok := m.highFives[id]
	if !ok {
		return nil, ErrNotFound
	}
	if highFive.Status != from {
		return nil, ErrConditionFailed
	}
	highFive.Status = models.StatusExpired
	highFive.Reason = reason
	m.highFives[id] = highFive
	return &highFive, nil
}

// --- NotificationStore ---

func (m *memStore) PutNotification(_ context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, *notification)
	return nil
}

// recordingNotifier captures Notify calls for assertions.
type notifyEvent struct {
	target  string
	kind    string
	payload map[string]string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (n *recordingNotifier) Notify(_ context.Context, target, kind string, payload map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifyEvent{target: target, kind: kind, payload: payload})
}

func (n *recordingNotifier) kindsFor(target string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []string
	for _, e := range n.events {
		if e.target == target {
			kinds = append(kinds, e.kind)
		}
	}
	return kinds
}
