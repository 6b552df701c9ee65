package services

import (
	"context"

	"highfive_server/models"
)

// The rendezvous services talk to the document store through these narrow
// interfaces. DynamoStore implements all of them; tests substitute in-memory
// fakes. Implementations report a missing document as ErrNotFound and a
// failed conditional transition as ErrConditionFailed.

// UserStore holds participant documents.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	PutUser(ctx context.Context, user *models.User) error
	// FindUserByUsername matches case-sensitively, as stored.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateHeartbeat(ctx context.Context, id string, ts int64) error
	SetFriends(ctx context.Context, id string, friendIDs []string) error
}

// SessionStore holds rendezvous session documents.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*models.HighFiveSession, error)
	PutSession(ctx context.Context, session *models.HighFiveSession) error
	// SetReadySlot writes exactly one side's ready flag and bumps lastUpdated.
	// Each participant only ever writes its own slot, so there is no
	// read-modify-write race on the flags.
	SetReadySlot(ctx context.Context, sessionID string, slot ReadySlot, ready bool, updatedAt int64) (*models.HighFiveSession, error)
	SessionsUpdatedSince(ctx context.Context, since int64) ([]models.HighFiveSession, error)
	SessionsUpdatedBefore(ctx context.Context, before int64) ([]models.HighFiveSession, error)
	DeleteSession(ctx context.Context, id string) error
}

// HighFiveStore holds match-attempt documents. The Mark* transitions are
// conditional on the current status; a lost race returns ErrConditionFailed
// and leaves the document untouched.
type HighFiveStore interface {
	GetHighFive(ctx context.Context, id string) (*models.HighFive, error)
	PutHighFive(ctx context.Context, highFive *models.HighFive) error
	// MarkMatched sets the receiver timestamp (at most once) and moves
	// pending -> matched.
	MarkMatched(ctx context.Context, id string, receiverTimestamp int64) (*models.HighFive, error)
	// MarkCompleted records the quality and moves matched -> completed.
	MarkCompleted(ctx context.Context, id string, quality float64) (*models.HighFive, error)
	// MarkExpired moves from -> expired with the given reason.
	MarkExpired(ctx context.Context, id string, from string, reason string) (*models.HighFive, error)
}

// NotificationStore persists fire-and-forget notification records for the
// push layer to drain.
type NotificationStore interface {
	PutNotification(ctx context.Context, notification *models.Notification) error
}
