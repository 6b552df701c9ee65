package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"highfive_server/models"
)

// SessionService is the rendezvous registry: it derives the canonical session
// for a pair of users, enforces the one-active-session-per-user rule and owns
// the per-slot ready flags.
type SessionService struct {
	Store    SessionStore
	Users    UserStore
	Notifier Notifier
	Live     Broadcaster

	// ActiveWindow is the sliding recency window inside which a session
	// counts as active for the sibling-session conflict check.
	ActiveWindow time.Duration

	Now func() time.Time
}

// NewSessionService wires a SessionService with the reference defaults.
func NewSessionService(store SessionStore, users UserStore, notifier Notifier, live Broadcaster) *SessionService {
	return &SessionService{
		Store:        store,
		Users:        users,
		Notifier:     notifier,
		Live:         live,
		ActiveWindow: 5 * time.Minute,
		Now:          time.Now,
	}
}

// DeriveSessionID returns the canonical session id for a pair of users:
// lexicographic order joined with an underscore, so both sides compute the
// same id no matter who connects first.
func DeriveSessionID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// Connect resolves or creates the session between selfID and partnerID.
//
// Joining an existing session is always allowed. Creation is refused with
// ErrAlreadyInSession when either user already sits in a different session
// updated within ActiveWindow. Concurrent creators racing on the same pair
// converge on one record because the id is deterministic and puts to the
// same key are last-writer-wins.
func (ss *SessionService) Connect(ctx context.Context, selfID, partnerID string) (*models.HighFiveSession, error) {
	if selfID == partnerID {
		return nil, ErrSelfConnect
	}

	sessionID := DeriveSessionID(selfID, partnerID)

	existing, err := ss.Store.GetSession(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up session '%s': %w", sessionID, err)
	}

	now := ss.Now().UnixMilli()
	since := now - ss.ActiveWindow.Milliseconds()
	recent, err := ss.Store.SessionsUpdatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to scan active sessions: %w", err)
	}
	for _, s := range recent {
		if s.ID != sessionID && (s.HasParticipant(selfID) || s.HasParticipant(partnerID)) {
			return nil, ErrAlreadyInSession
		}
	}

	pair := []string{selfID, partnerID}
	sort.Strings(pair)
	session := &models.HighFiveSession{
		ID:          sessionID,
		UserA:       pair[0],
		UserB:       pair[1],
		LastUpdated: now,
	}
	if err := ss.Store.PutSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session '%s': %w", sessionID, err)
	}

	ss.notifyPartner(ctx, selfID, partnerID, models.NotificationHighFiveRequest)
	ss.broadcast(session)
	return session, nil
}

// SetReady writes the caller's own ready slot and bumps lastUpdated. The
// partner is notified when their view of the caller's flag changed.
func (ss *SessionService) SetReady(ctx context.Context, userID, sessionID string, ready bool) (*models.HighFiveSession, error) {
	session, err := ss.Store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	slot, ok := SlotFor(session, userID)
	if !ok {
		return nil, ErrNotFound
	}

	updated, err := ss.Store.SetReadySlot(ctx, sessionID, slot, ready, ss.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to update ready state: %w", err)
	}

	partnerID := session.PartnerOf(userID)
	switch SessionTransition(session, updated, partnerID) {
	case PartnerBecameReady, BothReady:
		ss.notifyPartner(ctx, userID, partnerID, models.NotificationHighFiveReady)
	case PartnerBecameUnready:
		ss.notifyPartner(ctx, userID, partnerID, models.NotificationHighFiveUnready)
	}

	ss.broadcast(updated)
	return updated, nil
}

// Leave resets only the caller's ready slot and bumps lastUpdated. The
// session record itself is never deleted here; it ages out of the activity
// window and, if the janitor is enabled, is swept later.
func (ss *SessionService) Leave(ctx context.Context, userID, sessionID string) error {
	session, err := ss.Store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	slot, ok := SlotFor(session, userID)
	if !ok {
		return ErrNotFound
	}

	updated, err := ss.Store.SetReadySlot(ctx, sessionID, slot, false, ss.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to reset ready state: %w", err)
	}
	ss.broadcast(updated)
	return nil
}

// GetSession returns the current session snapshot.
func (ss *SessionService) GetSession(ctx context.Context, sessionID string) (*models.HighFiveSession, error) {
	return ss.Store.GetSession(ctx, sessionID)
}

func (ss *SessionService) notifyPartner(ctx context.Context, senderID, partnerID, kind string) {
	if ss.Notifier == nil {
		return
	}
	payload := map[string]string{"senderId": senderID}
	if ss.Users != nil {
		if sender, err := ss.Users.GetUser(ctx, senderID); err == nil {
			payload["senderName"] = sender.Username
		}
	}
	ss.Notifier.Notify(ctx, partnerID, kind, payload)
}

func (ss *SessionService) broadcast(session *models.HighFiveSession) {
	if ss.Live != nil {
		ss.Live.BroadcastToSession(session.ID, "session", session)
	}
}
