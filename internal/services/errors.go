// Package services defines the business logic for polls, options, votes,
// and results. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Every sentinel belongs to exactly one of six recoverable kinds
// (validation, state, authorization, conflict, not-found, invariant); the
// Kind classifier below lets the handler layer map any service error to an
// HTTP result without enumerating individual sentinels. Unrecoverable
// persistence failures are propagated as-is and classified as KindInternal.
package services

import "errors"

// Validation errors: malformed or missing input.
var (
	// ErrBlankQuestion is returned when a poll is created with an empty question.
	ErrBlankQuestion = errors.New("question must not be blank")

	// ErrBlankCaption is returned when an option caption is empty or whitespace.
	ErrBlankCaption = errors.New("caption must not be blank")

	// ErrDuplicateCaption is returned when an option caption already exists
	// within the poll (captions are compared case-sensitively).
	ErrDuplicateCaption = errors.New("caption already exists in poll")

	// ErrExpiryNotFuture is returned when a poll's validUntil is not strictly
	// in the future at creation time.
	ErrExpiryNotFuture = errors.New("valid_until must be in the future")

	// ErrOptionNotInPoll is returned when a vote references an option that
	// does not belong to the target poll.
	ErrOptionNotInPoll = errors.New("option does not belong to poll")

	// ErrNotEnoughOptions is returned when a poll is created with fewer than
	// two distinct options. Removal below the floor on an existing poll is
	// ErrTooFewOptions instead.
	ErrNotEnoughOptions = errors.New("at least 2 options are required")
)

// State errors: the operation is not permitted in the poll's current
// lifecycle state.
var (
	// ErrPollClosed is returned when a write targets an expired poll.
	ErrPollClosed = errors.New("poll is closed")
)

// Authorization errors.
var (
	// ErrNotOwner is returned when an owner-only action is attempted by a
	// caller who did not create the poll.
	ErrNotOwner = errors.New("caller is not the poll owner")
)

// Conflict errors.
var (
	// ErrAlreadyVoted is returned when an authenticated voter casts a second
	// first-vote for the same poll; the caller should change the vote instead.
	ErrAlreadyVoted = errors.New("already voted - use change vote")
)

// Not-found errors.
var (
	// ErrPollNotFound indicates that the requested poll does not exist.
	ErrPollNotFound = errors.New("poll not found")

	// ErrOptionNotFound indicates that the requested option does not exist.
	ErrOptionNotFound = errors.New("option not found")

	// ErrVoteNotFound is returned by change-vote when the voter has no
	// existing ballot for the poll (the caller should cast instead).
	ErrVoteNotFound = errors.New("no vote to change")
)

// Invariant errors.
var (
	// ErrTooFewOptions is returned when removing an option would leave an
	// existing poll with fewer than two.
	ErrTooFewOptions = errors.New("poll must keep at least 2 options")
)

// ErrorKind buckets service errors by how the caller should react.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindState
	KindAuthorization
	KindConflict
	KindNotFound
	KindInvariant
)

// Kind classifies err into one of the recoverable error kinds. Errors that
// are not service sentinels (driver faults, context cancellation, ...) are
// reported as KindInternal and should be surfaced as infrastructure faults.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrBlankQuestion),
		errors.Is(err, ErrBlankCaption),
		errors.Is(err, ErrDuplicateCaption),
		errors.Is(err, ErrExpiryNotFuture),
		errors.Is(err, ErrOptionNotInPoll),
		errors.Is(err, ErrNotEnoughOptions):
		return KindValidation
	case errors.Is(err, ErrPollClosed):
		return KindState
	case errors.Is(err, ErrNotOwner):
		return KindAuthorization
	case errors.Is(err, ErrAlreadyVoted):
		return KindConflict
	case errors.Is(err, ErrPollNotFound),
		errors.Is(err, ErrOptionNotFound),
		errors.Is(err, ErrVoteNotFound):
		return KindNotFound
	case errors.Is(err, ErrTooFewOptions):
		return KindInvariant
	default:
		return KindInternal
	}
}
