package models

// Notification is a fire-and-forget event record fanned out to a single user.
// The push layer (out of scope here) drains these for device delivery; the
// realtime socket gets the same payload immediately.
type Notification struct {
	ID        string            `dynamodbav:"id" json:"id"`
	UserID    string            `dynamodbav:"userId" json:"userId"` // target user
	Kind      string            `dynamodbav:"kind" json:"kind"`
	Payload   map[string]string `dynamodbav:"payload,omitempty" json:"payload,omitempty"`
	Timestamp int64             `dynamodbav:"timestamp" json:"timestamp"` // server-assigned, unix millis
}

// NotificationsTable is the DynamoDB table name for notification records
const NotificationsTable = "Notifications"
