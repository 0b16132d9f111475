package domain

import "time"

// PolicyKind identifies how a book's return deadline is computed.
type PolicyKind string

const (
	PolicyStandard    PolicyKind = "STANDARD"
	PolicyTimed       PolicyKind = "TIMED"
	PolicyDailyReturn PolicyKind = "DAILY_RETURN"
)

// BorrowPolicy is a tagged variant: Hours is meaningful only for TIMED.
// Build policies through the constructors so a TIMED policy can never carry
// a non-positive duration.
type BorrowPolicy struct {
	Kind  PolicyKind `json:"kind" yaml:"kind"`
	Hours int        `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// StandardPolicy returns the no-deadline policy.
func StandardPolicy() BorrowPolicy {
	return BorrowPolicy{Kind: PolicyStandard}
}

// TimedPolicy returns a fixed-duration policy of the given number of hours.
func TimedPolicy(hours int) (BorrowPolicy, error) {
	if hours <= 0 {
		return BorrowPolicy{}, ErrInvalidPolicyConfig
	}
	return BorrowPolicy{Kind: PolicyTimed, Hours: hours}, nil
}

// DailyReturnPolicy returns the policy that makes books due at the next
// daily cutoff after the borrow instant.
func DailyReturnPolicy() BorrowPolicy {
	return BorrowPolicy{Kind: PolicyDailyReturn}
}

// Validate checks a policy that arrived from outside the constructors, such
// as a fixture row or a database scan.
func (p BorrowPolicy) Validate() error {
	switch p.Kind {
	case PolicyStandard, PolicyDailyReturn:
		return nil
	case PolicyTimed:
		if p.Hours <= 0 {
			return ErrInvalidPolicyConfig
		}
		return nil
	default:
		return ErrInvalidPolicyConfig
	}
}

// Book is a catalog entry. Availability is not part of the book: it is
// derived from the borrow ledger on every read.
type Book struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Policy      BorrowPolicy `json:"policy"`
	CreatedAt   time.Time    `json:"created_at"`
}

// BookListing pairs a book with its availability at the moment of the query.
// ReturnBy is set when the book is out on a loan that has a deadline.
type BookListing struct {
	Book      Book       `json:"book"`
	Available bool       `json:"available"`
	ReturnBy  *time.Time `json:"return_by,omitempty"`
}
