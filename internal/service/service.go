package service

import (
	"context"
	"time"

	"liblend-backend/internal/domain"
)

type LendingService interface {
	// Borrow creates an ACTIVE record for the book with the return deadline
	// resolved from the book's policy at the borrow instant. It returns
	// domain.ErrBookNotFound for unknown books and domain.ErrAlreadyBorrowed
	// when the book is out.
	Borrow(ctx context.Context, bookID, borrowerID string) (*domain.BorrowRecord, error)

	// ReturnBook finishes the book's ACTIVE record as RETURNED. With no
	// active record it returns domain.ErrNoActiveBorrow; losing the race to
	// the expiry sweep is not an error, the terminal record is returned
	// as-is.
	ReturnBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error)

	ListAvailableBooks(ctx context.Context) ([]domain.Book, error)

	// ListMyRecords partitions the borrower's records into active loans and
	// finished history, both most recently borrowed first.
	ListMyRecords(ctx context.Context, borrowerID string) (active, history []domain.BorrowRecord, err error)

	IsAvailable(ctx context.Context, bookID string) (bool, error)

	// AutoReturnExpired finishes every ACTIVE record whose deadline is at or
	// before now. The sweep job drives it on a schedule; now is read once
	// per sweep so the whole batch shares one returned_at.
	AutoReturnExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error)

	// ListDueSoon returns ACTIVE records due within the lead window.
	ListDueSoon(ctx context.Context, now time.Time, lead time.Duration) ([]domain.BorrowRecord, error)
}

type CatalogService interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// ListBooks returns the whole catalog annotated with availability
	// derived from the ledger at call time.
	ListBooks(ctx context.Context) ([]domain.BookListing, error)
}

type EmailService interface {
	SendAutoReturnNotice(ctx context.Context, email, bookTitle string, returnedAt time.Time) error
	SendReturnReminder(ctx context.Context, email, bookTitle string, returnBy time.Time) error
}
