package models

import "time"

// HighFive is one synchronized-tap attempt between an initiator and a receiver.
//
// Timestamps are client-local on purpose: the point is to measure real human
// reaction skew, so server clocks would erase the signal. Session bookkeeping
// (lastUpdated) uses server time instead.
type HighFive struct {
	ID                 string  `dynamodbav:"id" json:"id"`
	InitiatorID        string  `dynamodbav:"initiatorId" json:"initiatorId"`
	ReceiverID         string  `dynamodbav:"receiverId" json:"receiverId"`
	InitiatorTimestamp int64   `dynamodbav:"initiatorTimestamp" json:"initiatorTimestamp"` // unix millis
	ReceiverTimestamp  int64   `dynamodbav:"receiverTimestamp" json:"receiverTimestamp"`   // zero until the receiver responds
	Status             string  `dynamodbav:"status" json:"status"`                         // pending, matched, completed, expired
	Reason             string  `dynamodbav:"reason,omitempty" json:"reason,omitempty"`     // set when expired
	Quality            float64 `dynamodbav:"quality" json:"quality"`                       // 0 until completed
	CreatedAt          int64   `dynamodbav:"createdAt" json:"createdAt"`
}

func (h HighFive) IsPending() bool   { return h.Status == StatusPending }
func (h HighFive) IsMatched() bool   { return h.Status == StatusMatched }
func (h HighFive) IsCompleted() bool { return h.Status == StatusCompleted }
func (h HighFive) IsExpired() bool   { return h.Status == StatusExpired }

// IsTerminal reports whether the attempt reached a state no writer may leave.
func (h HighFive) IsTerminal() bool {
	return h.Status == StatusCompleted || h.Status == StatusExpired
}

// TimeDifference returns the absolute skew between the two tap timestamps.
func (h HighFive) TimeDifference() time.Duration {
	d := h.InitiatorTimestamp - h.ReceiverTimestamp
	if d < 0 {
		d = -d
	}
	return time.Duration(d) * time.Millisecond
}

// HighFivesTable is the DynamoDB table name for high-five attempts
const HighFivesTable = "HighFives"
