package domain

import "time"

// BorrowStatus is the lifecycle state of a borrow record.
type BorrowStatus string

const (
	BorrowStatusActive       BorrowStatus = "ACTIVE"
	BorrowStatusReturned     BorrowStatus = "RETURNED"
	BorrowStatusAutoReturned BorrowStatus = "AUTO_RETURNED"
)

// Terminal reports whether the status is one of the two final states.
func (s BorrowStatus) Terminal() bool {
	return s == BorrowStatusReturned || s == BorrowStatusAutoReturned
}

// BorrowRecord tracks one borrow-to-return cycle of one book.
//
// ReturnBy is computed once when the record is created and never changes
// afterwards, even if the book's policy is edited later. ReturnedAt is set
// exactly once, on the transition out of ACTIVE; the only legal transitions
// are ACTIVE to RETURNED and ACTIVE to AUTO_RETURNED.
type BorrowRecord struct {
	ID         string       `json:"id"`
	BookID     string       `json:"book_id"`
	BorrowerID string       `json:"borrower_id"`
	BorrowedAt time.Time    `json:"borrowed_at"`
	ReturnBy   *time.Time   `json:"return_by,omitempty"`
	ReturnedAt *time.Time   `json:"returned_at,omitempty"`
	Status     BorrowStatus `json:"status"`
}
