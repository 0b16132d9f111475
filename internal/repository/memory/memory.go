// Package memory implements the repositories over in-process maps. It backs
// development deployments (store type "memory") and tests; the catalog and
// ledger live only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository"
)

// Store aggregates the two repositories over one shared dataset, mirroring
// the postgres store's shape.
type Store struct {
	repository.BookRepository
	repository.BorrowRepository
}

func NewStore() *Store {
	db := &database{
		books:   make(map[string]domain.Book),
		records: make(map[string]domain.BorrowRecord),
	}
	return &Store{
		BookRepository:   &bookRepository{db: db},
		BorrowRepository: &borrowRepository{db: db},
	}
}

// database holds the maps behind a single mutex. Every transition re-checks
// its precondition under the write lock, which is what keeps concurrent
// borrows, returns and sweeps to exactly one winner.
type database struct {
	mu      sync.RWMutex
	books   map[string]domain.Book
	records map[string]domain.BorrowRecord
}

type bookRepository struct {
	db *database
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.books[book.ID]; exists {
		return fmt.Errorf("book %s already exists", book.ID)
	}
	r.db.books[book.ID] = *book
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	book, ok := r.db.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	books := make([]domain.Book, 0, len(r.db.books))
	for _, book := range r.db.books {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}

type borrowRepository struct {
	db *database
}

func (r *borrowRepository) CreateActive(ctx context.Context, rec *domain.BorrowRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.records {
		if existing.BookID == rec.BookID && existing.Status == domain.BorrowStatusActive {
			return domain.ErrAlreadyBorrowed
		}
	}
	r.db.records[rec.ID] = *rec
	return nil
}

func (r *borrowRepository) GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.records[id]
	if !ok {
		return nil, fmt.Errorf("borrow record %s not found", id)
	}
	return &rec, nil
}

func (r *borrowRepository) GetActiveByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rec := range r.db.records {
		if rec.BookID == bookID && rec.Status == domain.BorrowStatusActive {
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *borrowRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.BorrowRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var records []domain.BorrowRecord
	for _, rec := range r.db.records {
		if rec.BorrowerID == borrowerID {
			records = append(records, rec)
		}
	}
	sortNewestFirst(records)
	return records, nil
}

func (r *borrowRepository) ListActive(ctx context.Context) ([]domain.BorrowRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var records []domain.BorrowRecord
	for _, rec := range r.db.records {
		if rec.Status == domain.BorrowStatusActive {
			records = append(records, rec)
		}
	}
	sortNewestFirst(records)
	return records, nil
}

func (r *borrowRepository) Finish(ctx context.Context, id string, status domain.BorrowStatus, returnedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rec, ok := r.db.records[id]
	if !ok {
		return fmt.Errorf("borrow record %s not found", id)
	}
	if rec.Status != domain.BorrowStatusActive {
		return domain.ErrRecordFinished
	}

	rec.Status = status
	rec.ReturnedAt = &returnedAt
	r.db.records[id] = rec
	return nil
}

func (r *borrowRepository) FinishAllExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var expired []domain.BorrowRecord
	for id, rec := range r.db.records {
		if rec.Status != domain.BorrowStatusActive || rec.ReturnBy == nil || rec.ReturnBy.After(now) {
			continue
		}

		returnedAt := now
		rec.Status = domain.BorrowStatusAutoReturned
		rec.ReturnedAt = &returnedAt
		r.db.records[id] = rec
		expired = append(expired, rec)
	}
	sortNewestFirst(expired)
	return expired, nil
}

func (r *borrowRepository) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.BorrowRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit := now.Add(window)
	var records []domain.BorrowRecord
	for _, rec := range r.db.records {
		if rec.Status != domain.BorrowStatusActive || rec.ReturnBy == nil {
			continue
		}
		if rec.ReturnBy.After(now) && !rec.ReturnBy.After(limit) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ReturnBy.Before(*records[j].ReturnBy)
	})
	return records, nil
}

func sortNewestFirst(records []domain.BorrowRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].BorrowedAt.Equal(records[j].BorrowedAt) {
			return records[i].BorrowedAt.After(records[j].BorrowedAt)
		}
		return records[i].ID < records[j].ID
	})
}
