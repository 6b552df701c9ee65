package services

import "errors"

// The service layer's error taxonomy. Controllers map these onto HTTP
// statuses; everything else is treated as a store failure.
var (
	// ErrNotFound reports a missing document.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyInSession reports that a participant already sits in a
	// different session updated within the activity window.
	ErrAlreadyInSession = errors.New("already in an active session")

	// ErrNotReady reports a high-five attempt on a session where either
	// side has not flagged ready.
	ErrNotReady = errors.New("both users must be ready")

	// ErrSelfConnect reports an attempt to open a session with oneself.
	ErrSelfConnect = errors.New("cannot connect to yourself")

	// ErrConditionFailed reports a conditional write that lost its race:
	// the document's status was no longer the one the transition expected.
	ErrConditionFailed = errors.New("conditional update failed")
)
