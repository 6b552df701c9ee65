package models

// HighFiveSession binds exactly two users for the duration of a high-five
// exchange. The pair is canonicalized once at creation (UserA sorts before
// UserB) and never re-sorted afterwards.
type HighFiveSession struct {
	ID          string `dynamodbav:"id" json:"id"`
	UserA       string `dynamodbav:"userA" json:"userA"`
	UserB       string `dynamodbav:"userB" json:"userB"`
	ReadyA      bool   `dynamodbav:"readyA" json:"readyA"`
	ReadyB      bool   `dynamodbav:"readyB" json:"readyB"`
	LastUpdated int64  `dynamodbav:"lastUpdated" json:"lastUpdated"` // server-assigned, unix millis
}

// HasParticipant reports whether userID occupies either slot of the session.
func (s HighFiveSession) HasParticipant(userID string) bool {
	return s.UserA == userID || s.UserB == userID
}

// PartnerOf returns the other participant's id, or "" if userID is not a participant.
func (s HighFiveSession) PartnerOf(userID string) string {
	switch userID {
	case s.UserA:
		return s.UserB
	case s.UserB:
		return s.UserA
	}
	return ""
}

// ReadyOf returns the ready flag belonging to userID's slot.
func (s HighFiveSession) ReadyOf(userID string) bool {
	if userID == s.UserA {
		return s.ReadyA
	}
	return s.ReadyB
}

// BothReady reports whether both slots are flagged ready.
func (s HighFiveSession) BothReady() bool {
	return s.ReadyA && s.ReadyB
}

// SessionsTable is the DynamoDB table name for high-five sessions
const SessionsTable = "HighFiveSessions"
