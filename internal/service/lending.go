package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/logger"
	"liblend-backend/internal/policy"
	"liblend-backend/internal/repository"
)

type lendingService struct {
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
	now        func() time.Time
}

func NewLendingService(bookRepo repository.BookRepository, borrowRepo repository.BorrowRepository) LendingService {
	return &lendingService{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *lendingService) Borrow(ctx context.Context, bookID, borrowerID string) (*domain.BorrowRecord, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// One clock reading covers both the borrow timestamp and the deadline.
	now := s.now()
	rec := &domain.BorrowRecord{
		ID:         uuid.NewString(),
		BookID:     book.ID,
		BorrowerID: borrowerID,
		BorrowedAt: now,
		ReturnBy:   policy.ReturnDeadline(book.Policy, now),
		Status:     domain.BorrowStatusActive,
	}

	if err := s.borrowRepo.CreateActive(ctx, rec); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Book borrowed",
		"book_id", book.ID,
		"borrower_id", borrowerID,
		"record_id", rec.ID,
		"policy", book.Policy.Kind)
	return rec, nil
}

func (s *lendingService) ReturnBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error) {
	rec, err := s.borrowRepo.GetActiveByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNoActiveBorrow
	}

	now := s.now()
	err = s.borrowRepo.Finish(ctx, rec.ID, domain.BorrowStatusReturned, now)
	if errors.Is(err, domain.ErrRecordFinished) {
		// Lost the race to the expiry sweep (or a concurrent return). The
		// book is back either way, so hand out the terminal record instead
		// of failing.
		logger.DebugContext(ctx, "Return raced with a concurrent transition",
			"record_id", rec.ID, "book_id", bookID)
		return s.borrowRepo.GetByID(ctx, rec.ID)
	}
	if err != nil {
		return nil, err
	}

	rec.Status = domain.BorrowStatusReturned
	rec.ReturnedAt = &now
	logger.InfoContext(ctx, "Book returned", "book_id", bookID, "record_id", rec.ID)
	return rec, nil
}

func (s *lendingService) ListAvailableBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.borrowRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	borrowed := make(map[string]bool, len(active))
	for _, rec := range active {
		borrowed[rec.BookID] = true
	}

	available := make([]domain.Book, 0, len(books))
	for _, book := range books {
		if !borrowed[book.ID] {
			available = append(available, book)
		}
	}
	return available, nil
}

func (s *lendingService) ListMyRecords(ctx context.Context, borrowerID string) ([]domain.BorrowRecord, []domain.BorrowRecord, error) {
	records, err := s.borrowRepo.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, nil, err
	}

	// The repository orders newest first; partitioning preserves that.
	var active, history []domain.BorrowRecord
	for _, rec := range records {
		if rec.Status == domain.BorrowStatusActive {
			active = append(active, rec)
		} else {
			history = append(history, rec)
		}
	}
	return active, history, nil
}

func (s *lendingService) IsAvailable(ctx context.Context, bookID string) (bool, error) {
	rec, err := s.borrowRepo.GetActiveByBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	return rec == nil, nil
}

func (s *lendingService) AutoReturnExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error) {
	return s.borrowRepo.FinishAllExpired(ctx, now)
}

func (s *lendingService) ListDueSoon(ctx context.Context, now time.Time, lead time.Duration) ([]domain.BorrowRecord, error) {
	return s.borrowRepo.ListDueWithin(ctx, now, lead)
}
