package service

import (
	"context"

	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository"
)

type catalogService struct {
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
}

func NewCatalogService(bookRepo repository.BookRepository, borrowRepo repository.BorrowRepository) CatalogService {
	return &catalogService{bookRepo: bookRepo, borrowRepo: borrowRepo}
}

func (s *catalogService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *catalogService) ListBooks(ctx context.Context) ([]domain.BookListing, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.borrowRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	activeByBook := make(map[string]domain.BorrowRecord, len(active))
	for _, rec := range active {
		activeByBook[rec.BookID] = rec
	}

	listings := make([]domain.BookListing, 0, len(books))
	for _, book := range books {
		listing := domain.BookListing{Book: book, Available: true}
		if rec, ok := activeByBook[book.ID]; ok {
			listing.Available = false
			listing.ReturnBy = rec.ReturnBy
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
