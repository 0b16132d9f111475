package service

import (
	"context"
	"time"

	"liblend-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepo) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

type MockBorrowRepo struct {
	mock.Mock
}

func (m *MockBorrowRepo) CreateActive(ctx context.Context, rec *domain.BorrowRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockBorrowRepo) GetByID(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepo) GetActiveByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepo) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepo) ListActive(ctx context.Context) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepo) Finish(ctx context.Context, id string, status domain.BorrowStatus, returnedAt time.Time) error {
	args := m.Called(ctx, id, status, returnedAt)
	return args.Error(0)
}

func (m *MockBorrowRepo) FinishAllExpired(ctx context.Context, now time.Time) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}

func (m *MockBorrowRepo) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]domain.BorrowRecord, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BorrowRecord), args.Error(1)
}
