package repository

import (
	"context"
	"time"

	"liblend-backend/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	// GetByID returns domain.ErrBookNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
}

type BorrowRepository interface {
	// CreateActive inserts a new ACTIVE record for rec.BookID provided no
	// other ACTIVE record exists for that book, and returns
	// domain.ErrAlreadyBorrowed otherwise. The check and the insert are
	// atomic with respect to concurrent callers.
	CreateActive(ctx context.Context, rec *domain.BorrowRecord) error

	GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error)

	// GetActiveByBook returns the ACTIVE record for the book, or nil when
	// the book has no active borrow.
	GetActiveByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error)

	// ListByBorrower returns every record of the borrower, most recently
	// borrowed first.
	ListByBorrower(ctx context.Context, borrowerID string) ([]domain.BorrowRecord, error)

	ListActive(ctx context.Context) ([]domain.BorrowRecord, error)

	// Finish transitions record id from ACTIVE to the given terminal status
	// and stamps returnedAt. It returns domain.ErrRecordFinished when the
	// record is no longer ACTIVE: exactly one Finish ever succeeds per
	// record, however many callers race.
	Finish(ctx context.Context, id string, status domain.BorrowStatus, returnedAt time.Time) error

	// FinishAllExpired transitions every ACTIVE record whose deadline is at
	// or before now to AUTO_RETURNED with returnedAt = now, and returns the
	// records it converted.
	FinishAllExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error)

	// ListDueWithin returns ACTIVE records whose deadline falls in
	// (now, now+window], soonest first.
	ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.BorrowRecord, error)
}
