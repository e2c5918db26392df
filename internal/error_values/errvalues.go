package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exist")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrEventNotFound  = errors.New("event doesn't exist")
	ErrEventCompleted = errors.New("event is already completed")
	ErrWrongOwner     = errors.New("event has a different owner")

	ErrProfileNotFound = errors.New("profile doesn't exist")
	ErrUnknownCategory = errors.New("unknown achievement category")
	ErrNothingToRetry  = errors.New("event has no pending completion credit")
	ErrInvalidDateKey  = errors.New("invalid date key")

	// ErrPartialCompletion marks the half-done state of the completion
	// pair of writes: the event is already marked completed but the
	// profile counters were not incremented yet.
	ErrPartialCompletion = errors.New("event completed but profile not credited")
)
