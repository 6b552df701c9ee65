package services

import "highfive_server/models"

// ReadySlot names which side of the canonical pair a participant occupies.
type ReadySlot string

const (
	SlotA ReadySlot = "A"
	SlotB ReadySlot = "B"
)

// SlotFor resolves a participant's slot by comparing their id against the
// canonical pair stored on the session. The second return is false when the
// user is not a participant.
func SlotFor(session *models.HighFiveSession, userID string) (ReadySlot, bool) {
	switch userID {
	case session.UserA:
		return SlotA, true
	case session.UserB:
		return SlotB, true
	}
	return "", false
}

// ReadyTransition describes what changed about the partner's readiness
// between two session snapshots.
type ReadyTransition int

const (
	NoChange ReadyTransition = iota
	PartnerBecameReady
	PartnerBecameUnready
	BothReady
)

func (t ReadyTransition) String() string {
	switch t {
	case PartnerBecameReady:
		return "partner_became_ready"
	case PartnerBecameUnready:
		return "partner_became_unready"
	case BothReady:
		return "both_ready"
	}
	return "no_change"
}

// SessionTransition compares the partner's ready flag between two snapshots
// of the same session, from selfID's point of view. prev may be nil (first
// snapshot observed), in which case the partner is assumed to have been
// unready. Pure function: the side effects it drives (notifications, UI
// state) live with the callers.
func SessionTransition(prev, cur *models.HighFiveSession, selfID string) ReadyTransition {
	if cur == nil {
		return NoChange
	}
	partnerID := cur.PartnerOf(selfID)
	if partnerID == "" {
		return NoChange
	}

	partnerNow := cur.ReadyOf(partnerID)
	partnerWas := false
	if prev != nil {
		partnerWas = prev.ReadyOf(prev.PartnerOf(selfID))
	}

	switch {
	case partnerNow == partnerWas:
		return NoChange
	case !partnerNow:
		return PartnerBecameUnready
	case cur.ReadyOf(selfID):
		return BothReady
	default:
		return PartnerBecameReady
	}
}
