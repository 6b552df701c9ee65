package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"highfive_server/models"

	"github.com/google/uuid"
)

// HighFiveService runs the match-attempt state machine:
//
//	pending -> matched -> completed
//	pending -> expired (no_response)
//	matched -> expired (too_slow)
//
// completed and expired are terminal. Every transition is a conditional write
// on the current status, so a late expiry timer, a concurrent responder and a
// duplicate evaluator can interleave in any order without resurrecting a
// terminal attempt.
type HighFiveService struct {
	Store    HighFiveStore
	Sessions SessionStore
	Notifier Notifier
	Live     Broadcaster

	// Timeout is how long a pending attempt may wait for a response before
	// the one-shot expiry timer fires.
	Timeout time.Duration
	// MatchWindow is the maximum skew between the two taps that still counts
	// as a high five.
	MatchWindow time.Duration

	Now func() time.Time
	// Schedule defers the expiry check; tests swap it out to drive expiry
	// deterministically.
	Schedule func(d time.Duration, f func())
}

// NewHighFiveService wires a HighFiveService with the reference defaults
// (5s response timeout, 2s match window).
func NewHighFiveService(store HighFiveStore, sessions SessionStore, notifier Notifier, live Broadcaster) *HighFiveService {
	return &HighFiveService{
		Store:       store,
		Sessions:    sessions,
		Notifier:    notifier,
		Live:        live,
		Timeout:     5000 * time.Millisecond,
		MatchWindow: 2000 * time.Millisecond,
		Now:         time.Now,
		Schedule:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// QualityForSkew maps the absolute tap skew to a quality score. Lower bounds
// are inclusive: a 100ms skew scores 0.8, not 1.0.
func QualityForSkew(skew time.Duration) float64 {
	switch ms := skew.Milliseconds(); {
	case ms < 100:
		return 1.0
	case ms < 300:
		return 0.8
	case ms < 500:
		return 0.6
	case ms < 800:
		return 0.4
	default:
		return 0.2
	}
}

// Initiate creates a pending attempt stamped with the initiator's clock and
// schedules the expiry check. Both sides of the pair's session must be ready,
// otherwise ErrNotReady.
func (hs *HighFiveService) Initiate(ctx context.Context, initiatorID, receiverID string) (*models.HighFive, error) {
	session, err := hs.Sessions.GetSession(ctx, DeriveSessionID(initiatorID, receiverID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotReady
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if !session.ReadyOf(initiatorID) || !session.ReadyOf(receiverID) {
		return nil, ErrNotReady
	}

	now := hs.Now().UnixMilli()
	highFive := &models.HighFive{
		ID:                 uuid.NewString(),
		InitiatorID:        initiatorID,
		ReceiverID:         receiverID,
		InitiatorTimestamp: now,
		Status:             models.StatusPending,
		CreatedAt:          now,
	}
	if err := hs.Store.PutHighFive(ctx, highFive); err != nil {
		return nil, fmt.Errorf("failed to create high five: %w", err)
	}

	id := highFive.ID
	hs.Schedule(hs.Timeout, func() {
		if err := hs.Expire(context.Background(), id); err != nil {
			log.Printf("expiry check for high five %s failed: %v", id, err)
		}
	})

	hs.broadcast(highFive)
	return highFive, nil
}

// Respond records the receiver's tap: sets the receiver timestamp (at most
// once) and moves pending -> matched, then evaluates the skew. Responding to
// an attempt that already reached a terminal state is a no-op that returns
// the attempt unchanged.
func (hs *HighFiveService) Respond(ctx context.Context, highFiveID, receiverID string) (*models.HighFive, error) {
	highFive, err := hs.Store.GetHighFive(ctx, highFiveID)
	if err != nil {
		return nil, err
	}
	if highFive.ReceiverID != receiverID {
		return nil, ErrNotFound
	}

	session, err := hs.Sessions.GetSession(ctx, DeriveSessionID(highFive.InitiatorID, highFive.ReceiverID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotReady
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if !session.ReadyOf(receiverID) {
		return nil, ErrNotReady
	}

	matched, err := hs.Store.MarkMatched(ctx, highFiveID, hs.Now().UnixMilli())
	if errors.Is(err, ErrConditionFailed) {
		// Lost the race against the expiry timer or a duplicate response.
		// Evaluate settles an attempt a previous responder left matched but
		// unscored, and returns terminal attempts unchanged.
		return hs.Evaluate(ctx, highFiveID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	hs.broadcast(matched)
	return hs.Evaluate(ctx, highFiveID)
}

// Evaluate scores a matched attempt: skew inside MatchWindow completes it
// with the step-function quality, anything slower expires it as too_slow.
// Idempotent — attempts that are still pending or already terminal are
// returned unchanged.
func (hs *HighFiveService) Evaluate(ctx context.Context, highFiveID string) (*models.HighFive, error) {
	highFive, err := hs.Store.GetHighFive(ctx, highFiveID)
	if err != nil {
		return nil, err
	}
	if !highFive.IsMatched() {
		return highFive, nil
	}

	skew := highFive.TimeDifference()
	var updated *models.HighFive
	if skew <= hs.MatchWindow {
		updated, err = hs.Store.MarkCompleted(ctx, highFiveID, QualityForSkew(skew))
	} else {
		updated, err = hs.Store.MarkExpired(ctx, highFiveID, models.StatusMatched, models.ReasonTooSlow)
	}
	if errors.Is(err, ErrConditionFailed) {
		// A concurrent evaluator got there first; its outcome stands.
		return hs.Store.GetHighFive(ctx, highFiveID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to settle high five: %w", err)
	}

	hs.notifyOutcome(ctx, updated)
	hs.broadcast(updated)
	return updated, nil
}

// Expire is the timer callback for attempts still pending after Timeout.
// Conditional on pending: expiring an attempt that was answered or already
// settled is a no-op.
func (hs *HighFiveService) Expire(ctx context.Context, highFiveID string) error {
	expired, err := hs.Store.MarkExpired(ctx, highFiveID, models.StatusPending, models.ReasonNoResponse)
	if errors.Is(err, ErrConditionFailed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to expire high five: %w", err)
	}

	hs.notifyOutcome(ctx, expired)
	hs.broadcast(expired)
	return nil
}

// GetHighFive returns the current attempt snapshot.
func (hs *HighFiveService) GetHighFive(ctx context.Context, highFiveID string) (*models.HighFive, error) {
	return hs.Store.GetHighFive(ctx, highFiveID)
}

func (hs *HighFiveService) notifyOutcome(ctx context.Context, highFive *models.HighFive) {
	if hs.Notifier == nil {
		return
	}
	kind := models.NotificationHighFiveExpired
	payload := map[string]string{"highFiveId": highFive.ID}
	if highFive.IsCompleted() {
		kind = models.NotificationHighFiveCompleted
		payload["quality"] = strconv.FormatFloat(highFive.Quality, 'f', 1, 64)
	} else {
		payload["reason"] = highFive.Reason
	}
	hs.Notifier.Notify(ctx, highFive.InitiatorID, kind, payload)
	hs.Notifier.Notify(ctx, highFive.ReceiverID, kind, payload)
}

func (hs *HighFiveService) broadcast(highFive *models.HighFive) {
	if hs.Live == nil {
		return
	}
	hs.Live.BroadcastToUser(highFive.InitiatorID, "high_five", highFive)
	hs.Live.BroadcastToUser(highFive.ReceiverID, "high_five", highFive)
}
