package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Claim precondition errors
	ErrMsgAlreadyClaimedToday  = "already_claimed_today"
	ErrMsgPrestigeNotAvailable = "prestige_not_available"
	ErrMsgPoolNotOpen          = "pool_not_open"
	ErrMsgMissionNotActive     = "mission_not_active"
	ErrMsgVaultNotMatured      = "vault_not_matured"
	ErrMsgProtectorNotHeld     = "protector_not_held"

	// Table errors
	ErrMsgTableNotFound = "outcome table not found"
	ErrMsgEmptyTable    = "outcome table is empty"

	// Commitment errors
	ErrMsgEntropyFailure    = "entropy source failure"
	ErrMsgCommitmentMissing = "commitment missing"

	// Database/System errors
	ErrMsgDatabaseError   = "database error"
	ErrMsgDuplicateRecord = "duplicate record"
	ErrMsgNotFound        = "record not found"

	// Lock errors
	ErrMsgLockNotHeld = "lock not held"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Precondition errors surfaced verbatim to callers. These never mutate
	// state and are never retried automatically.
	ErrAlreadyClaimedToday  = errors.New(ErrMsgAlreadyClaimedToday)
	ErrPrestigeNotAvailable = errors.New(ErrMsgPrestigeNotAvailable)
	ErrPoolNotOpen          = errors.New(ErrMsgPoolNotOpen)
	ErrMissionNotActive     = errors.New(ErrMsgMissionNotActive)
	ErrVaultNotMatured      = errors.New(ErrMsgVaultNotMatured)
	ErrProtectorNotHeld     = errors.New(ErrMsgProtectorNotHeld)

	// Table errors
	ErrTableNotFound = errors.New(ErrMsgTableNotFound)
	ErrEmptyTable    = errors.New(ErrMsgEmptyTable)

	// Commitment errors
	ErrEntropyFailure    = errors.New(ErrMsgEntropyFailure)
	ErrCommitmentMissing = errors.New(ErrMsgCommitmentMissing)

	// Storage errors. ErrDuplicateRecord marks a unique-constraint loss in an
	// idempotent race; callers translate it into "return existing result".
	ErrDuplicateRecord = errors.New(ErrMsgDuplicateRecord)
	ErrNotFound        = errors.New(ErrMsgNotFound)

	// Lock errors
	ErrLockNotHeld = errors.New(ErrMsgLockNotHeld)
)

// IsPrecondition reports whether err is a domain precondition violation as
// opposed to a transport or infrastructure failure.
func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrAlreadyClaimedToday,
		ErrPrestigeNotAvailable,
		ErrPoolNotOpen,
		ErrMissionNotActive,
		ErrVaultNotMatured,
		ErrProtectorNotHeld,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
