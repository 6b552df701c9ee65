package models

// High-five attempt statuses
const (
	StatusPending   = "pending"
	StatusMatched   = "matched"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
)

// Expiry reasons, recorded on expired attempts
const (
	ReasonNoResponse = "no_response" // timed out unanswered
	ReasonTooSlow    = "too_slow"    // answered, but skew over the match window
)

// Notification kinds
const (
	NotificationHighFiveRequest   = "high_five_request"
	NotificationHighFiveReady     = "high_five_ready"
	NotificationHighFiveUnready   = "high_five_unready"
	NotificationHighFiveCompleted = "high_five_completed"
	NotificationHighFiveExpired   = "high_five_expired"
)
