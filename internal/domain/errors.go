package domain

import "errors"

// Sentinel errors for lending outcomes. Callers branch with errors.Is.
var (
	// ErrBookNotFound means the book id is unknown to the catalog.
	ErrBookNotFound = errors.New("book not found")

	// ErrAlreadyBorrowed means an ACTIVE record already exists for the book.
	ErrAlreadyBorrowed = errors.New("book already borrowed")

	// ErrNoActiveBorrow means a return found no ACTIVE record for the book.
	// Returning the same book twice lands here as well.
	ErrNoActiveBorrow = errors.New("no active borrow for book")

	// ErrInvalidPolicyConfig means a TIMED policy has a missing or
	// non-positive duration. Raised where the policy is set, never at
	// borrow time.
	ErrInvalidPolicyConfig = errors.New("invalid borrow policy configuration")

	// ErrRecordFinished means a status transition found the record already
	// in a terminal state. Callers that only need the book back treat it as
	// a benign no-op.
	ErrRecordFinished = errors.New("borrow record already finished")
)
