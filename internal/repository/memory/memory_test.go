package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"liblend-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BorrowLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	book := &domain.Book{ID: "book-1", Title: "Clean Code", Policy: domain.StandardPolicy(), CreatedAt: now}
	require.NoError(t, store.BookRepository.Create(ctx, book))

	rec := &domain.BorrowRecord{
		ID:         "rec-1",
		BookID:     "book-1",
		BorrowerID: "reader@example.com",
		BorrowedAt: now,
		Status:     domain.BorrowStatusActive,
	}
	require.NoError(t, store.BorrowRepository.CreateActive(ctx, rec))

	t.Run("Second Borrow Rejected", func(t *testing.T) {
		dup := &domain.BorrowRecord{
			ID:         "rec-2",
			BookID:     "book-1",
			BorrowerID: "other@example.com",
			BorrowedAt: now.Add(time.Minute),
			Status:     domain.BorrowStatusActive,
		}
		err := store.BorrowRepository.CreateActive(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
	})

	t.Run("Active Record Visible", func(t *testing.T) {
		active, err := store.BorrowRepository.GetActiveByBook(ctx, "book-1")
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, "rec-1", active.ID)
	})

	t.Run("Finish Transitions Once", func(t *testing.T) {
		returnedAt := now.Add(2 * time.Hour)
		require.NoError(t, store.BorrowRepository.Finish(ctx, "rec-1", domain.BorrowStatusReturned, returnedAt))

		active, err := store.BorrowRepository.GetActiveByBook(ctx, "book-1")
		require.NoError(t, err)
		assert.Nil(t, active)

		got, err := store.BorrowRepository.GetByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BorrowStatusReturned, got.Status)
		require.NotNil(t, got.ReturnedAt)
		assert.Equal(t, returnedAt, *got.ReturnedAt)

		// A second transition must fail and leave the record untouched.
		err = store.BorrowRepository.Finish(ctx, "rec-1", domain.BorrowStatusAutoReturned, returnedAt.Add(time.Hour))
		assert.ErrorIs(t, err, domain.ErrRecordFinished)

		got, err = store.BorrowRepository.GetByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BorrowStatusReturned, got.Status)
		assert.Equal(t, returnedAt, *got.ReturnedAt)
	})

	t.Run("Borrow Again After Return", func(t *testing.T) {
		again := &domain.BorrowRecord{
			ID:         "rec-3",
			BookID:     "book-1",
			BorrowerID: "other@example.com",
			BorrowedAt: now.Add(3 * time.Hour),
			Status:     domain.BorrowStatusActive,
		}
		assert.NoError(t, store.BorrowRepository.CreateActive(ctx, again))
	})
}

func TestMemoryStore_FinishAllExpired(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 10, 0, 1, 0, time.UTC)

	overdue := now.Add(-time.Second)
	future := now.Add(10 * time.Hour)
	records := []domain.BorrowRecord{
		{ID: "rec-1", BookID: "book-1", BorrowerID: "a@example.com", BorrowedAt: now.Add(-24 * time.Hour), ReturnBy: &overdue, Status: domain.BorrowStatusActive},
		{ID: "rec-2", BookID: "book-2", BorrowerID: "b@example.com", BorrowedAt: now.Add(-24 * time.Hour), ReturnBy: &future, Status: domain.BorrowStatusActive},
		{ID: "rec-3", BookID: "book-3", BorrowerID: "c@example.com", BorrowedAt: now.Add(-24 * time.Hour), Status: domain.BorrowStatusActive},
	}
	for i := range records {
		require.NoError(t, store.BorrowRepository.CreateActive(ctx, &records[i]))
	}

	expired, err := store.BorrowRepository.FinishAllExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "rec-1", expired[0].ID)
	assert.Equal(t, domain.BorrowStatusAutoReturned, expired[0].Status)
	require.NotNil(t, expired[0].ReturnedAt)
	assert.Equal(t, now, *expired[0].ReturnedAt)

	// Records without a deadline, or not yet due, stay ACTIVE.
	active, err := store.BorrowRepository.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// A second sweep at the same instant finds nothing left to do.
	expired, err = store.BorrowRepository.FinishAllExpired(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestMemoryStore_DeadlineBoundary(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	deadline := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	rec := &domain.BorrowRecord{
		ID: "rec-1", BookID: "book-1", BorrowerID: "a@example.com",
		BorrowedAt: deadline.Add(-24 * time.Hour), ReturnBy: &deadline,
		Status: domain.BorrowStatusActive,
	}
	require.NoError(t, store.BorrowRepository.CreateActive(ctx, rec))

	// One second before the deadline the record is untouched.
	expired, err := store.BorrowRepository.FinishAllExpired(ctx, deadline.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, expired)

	// At the deadline itself, returnBy <= now holds and the record flips.
	expired, err = store.BorrowRepository.FinishAllExpired(ctx, deadline)
	require.NoError(t, err)
	assert.Len(t, expired, 1)
}

func TestMemoryStore_ListDueWithin(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)

	atNow := now
	inWindow := now.Add(3 * time.Hour)
	atLimit := now.Add(6 * time.Hour)
	beyond := now.Add(7 * time.Hour)
	records := []domain.BorrowRecord{
		{ID: "rec-1", BookID: "book-1", BorrowerID: "a@example.com", BorrowedAt: now.Add(-time.Hour), ReturnBy: &atNow, Status: domain.BorrowStatusActive},
		{ID: "rec-2", BookID: "book-2", BorrowerID: "b@example.com", BorrowedAt: now.Add(-time.Hour), ReturnBy: &inWindow, Status: domain.BorrowStatusActive},
		{ID: "rec-3", BookID: "book-3", BorrowerID: "c@example.com", BorrowedAt: now.Add(-time.Hour), ReturnBy: &atLimit, Status: domain.BorrowStatusActive},
		{ID: "rec-4", BookID: "book-4", BorrowerID: "d@example.com", BorrowedAt: now.Add(-time.Hour), ReturnBy: &beyond, Status: domain.BorrowStatusActive},
	}
	for i := range records {
		require.NoError(t, store.BorrowRepository.CreateActive(ctx, &records[i]))
	}

	due, err := store.BorrowRepository.ListDueWithin(ctx, now, 6*time.Hour)
	require.NoError(t, err)
	// rec-1 is already due (the sweep's business), rec-4 is past the window.
	require.Len(t, due, 2)
	assert.Equal(t, "rec-2", due[0].ID)
	assert.Equal(t, "rec-3", due[1].ID)
}

func TestMemoryStore_ConcurrentBorrows(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.BookRepository.Create(ctx, &domain.Book{
		ID: "book-1", Title: "Clean Code", Policy: domain.StandardPolicy(), CreatedAt: now,
	}))

	const racers = 32
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := &domain.BorrowRecord{
				ID:         fmt.Sprintf("rec-%d", i),
				BookID:     "book-1",
				BorrowerID: fmt.Sprintf("reader-%d@example.com", i),
				BorrowedAt: now,
				Status:     domain.BorrowStatusActive,
			}
			errs[i] = store.BorrowRepository.CreateActive(ctx, rec)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
		}
	}
	assert.Equal(t, 1, winners)

	active, err := store.BorrowRepository.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestMemoryStore_ConcurrentReturnAndSweep(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		store := NewStore()
		now := time.Now().UTC()
		deadline := now.Add(-time.Minute)

		rec := &domain.BorrowRecord{
			ID: "rec-1", BookID: "book-1", BorrowerID: "reader@example.com",
			BorrowedAt: now.Add(-24 * time.Hour), ReturnBy: &deadline,
			Status: domain.BorrowStatusActive,
		}
		require.NoError(t, store.BorrowRepository.CreateActive(ctx, rec))

		var wg sync.WaitGroup
		var returnErr error
		var swept []domain.BorrowRecord
		var sweepErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			returnErr = store.BorrowRepository.Finish(ctx, "rec-1", domain.BorrowStatusReturned, now)
		}()
		go func() {
			defer wg.Done()
			swept, sweepErr = store.BorrowRepository.FinishAllExpired(ctx, now)
		}()
		wg.Wait()

		require.NoError(t, sweepErr)

		// Exactly one side wins the transition.
		manualWon := returnErr == nil
		sweepWon := len(swept) == 1
		assert.NotEqual(t, manualWon, sweepWon, "exactly one of return and sweep must win")
		if !manualWon {
			assert.ErrorIs(t, returnErr, domain.ErrRecordFinished)
		}

		got, err := store.BorrowRepository.GetByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.True(t, got.Status.Terminal())
		require.NotNil(t, got.ReturnedAt)
		assert.Equal(t, now, *got.ReturnedAt)
	}
}
