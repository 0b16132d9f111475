package postgres

import (
	"context"
	"database/sql"
	"errors"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, author, category, description, policy_kind, policy_hours, created_at`

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (id, title, author, category, description, policy_kind, policy_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Category, book.Description,
		book.Policy.Kind, book.Policy.Hours, book.CreatedAt)
	return err
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	book := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
		&book.Policy.Kind, &book.Policy.Hours, &book.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
			&book.Policy.Kind, &book.Policy.Hours, &book.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
