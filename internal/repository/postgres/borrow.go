package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository"
)

type borrowRepository struct {
	db *sql.DB
}

func NewBorrowRepository(db *sql.DB) repository.BorrowRepository {
	return &borrowRepository{db: db}
}

const borrowColumns = `id, book_id, borrower_id, borrowed_at, return_by, returned_at, status`

func (r *borrowRepository) CreateActive(ctx context.Context, rec *domain.BorrowRecord) error {
	// Conditional insert keyed on "no ACTIVE record for this book". The
	// partial unique index on (book_id) WHERE status = 'ACTIVE' enforces
	// the same invariant when two of these race.
	query := `
		INSERT INTO borrow_records (id, book_id, borrower_id, borrowed_at, return_by, status)
		SELECT $1, $2, $3, $4, $5, 'ACTIVE'
		WHERE NOT EXISTS (
			SELECT 1 FROM borrow_records WHERE book_id = $2 AND status = 'ACTIVE'
		)`

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.BookID, rec.BorrowerID, rec.BorrowedAt, rec.ReturnBy)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyBorrowed
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAlreadyBorrowed
	}
	return nil
}

func (r *borrowRepository) GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	rec := &domain.BorrowRecord{}
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.BookID, &rec.BorrowerID, &rec.BorrowedAt,
		&rec.ReturnBy, &rec.ReturnedAt, &rec.Status)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *borrowRepository) GetActiveByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error) {
	rec := &domain.BorrowRecord{}
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE book_id = $1 AND status = 'ACTIVE'`

	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
		&rec.ID, &rec.BookID, &rec.BorrowerID, &rec.BorrowedAt,
		&rec.ReturnBy, &rec.ReturnedAt, &rec.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *borrowRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.BorrowRecord, error) {
	query := `
		SELECT ` + borrowColumns + `
		FROM borrow_records
		WHERE borrower_id = $1
		ORDER BY borrowed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, borrowerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *borrowRepository) ListActive(ctx context.Context) ([]domain.BorrowRecord, error) {
	query := `
		SELECT ` + borrowColumns + `
		FROM borrow_records
		WHERE status = 'ACTIVE'
		ORDER BY borrowed_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *borrowRepository) Finish(ctx context.Context, id string, status domain.BorrowStatus, returnedAt time.Time) error {
	// The status guard in the WHERE clause makes the transition a
	// compare-and-set: whoever runs second updates zero rows.
	query := `
		UPDATE borrow_records
		SET status = $2, returned_at = $3
		WHERE id = $1 AND status = 'ACTIVE'`

	res, err := r.db.ExecContext(ctx, query, id, status, returnedAt)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRecordFinished
	}
	return nil
}

func (r *borrowRepository) FinishAllExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error) {
	query := `
		UPDATE borrow_records
		SET status = 'AUTO_RETURNED', returned_at = $1
		WHERE status = 'ACTIVE' AND return_by IS NOT NULL AND return_by <= $1
		RETURNING ` + borrowColumns

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *borrowRepository) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.BorrowRecord, error) {
	query := `
		SELECT ` + borrowColumns + `
		FROM borrow_records
		WHERE status = 'ACTIVE' AND return_by IS NOT NULL AND return_by > $1 AND return_by <= $2
		ORDER BY return_by`

	rows, err := r.db.QueryContext(ctx, query, now, now.Add(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]domain.BorrowRecord, error) {
	var records []domain.BorrowRecord
	for rows.Next() {
		var rec domain.BorrowRecord
		if err := rows.Scan(
			&rec.ID, &rec.BookID, &rec.BorrowerID, &rec.BorrowedAt,
			&rec.ReturnBy, &rec.ReturnedAt, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
