package models

import "time"

// User defines the structure for a participant document
type User struct {
	ID            string   `dynamodbav:"id" json:"id"`
	Username      string   `dynamodbav:"username" json:"username"` // unique, case-sensitive
	Email         string   `dynamodbav:"email,omitempty" json:"email,omitempty"`
	LastHeartbeat int64    `dynamodbav:"lastHeartbeat" json:"lastHeartbeat"` // unix millis, bumped ~1s by clients
	FriendIDs     []string `dynamodbav:"friendIds,omitempty" json:"friendIds"`
}

// OnlineThreshold is how recent a heartbeat must be for a user to count as online.
const OnlineThreshold = 5000 * time.Millisecond

// IsOnline reports whether the user sent a heartbeat within OnlineThreshold of now.
func (u User) IsOnline(now time.Time) bool {
	return now.UnixMilli()-u.LastHeartbeat < OnlineThreshold.Milliseconds()
}

// UsersTable is the DynamoDB table name for users
const UsersTable = "Users"
