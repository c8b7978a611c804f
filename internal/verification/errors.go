package verification

import "errors"

var (
	// ErrNoPendingSession means the session has no verification record,
	// either because none was created or because it was already consumed.
	ErrNoPendingSession = errors.New("no pending verification for session")
	// ErrExpired means the record outlived its expiry.  The record is
	// removed when this is reported.
	ErrExpired = errors.New("verification code expired")
	// ErrCodeMismatch means the submitted code differs from the issued one.
	// The record is kept so the visitor may retry until expiry.
	ErrCodeMismatch = errors.New("verification code mismatch")
)
