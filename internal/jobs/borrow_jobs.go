package jobs

import (
	"context"
	"time"

	"liblend-backend/internal/logger"
)

// AutoReturnExpired is the expiry sweep: every ACTIVE borrow whose deadline
// has passed becomes AUTO_RETURNED, then the affected borrowers are
// notified. The clock is read once per sweep, so the whole batch shares one
// returned_at. Failures are logged and skipped; the next tick picks up
// whatever was missed.
func (jr *JobRunner) AutoReturnExpired() {
	jr.runWithRecovery("AutoReturnExpired", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		expired, err := jr.services.Lending.AutoReturnExpired(ctx, now)
		if err != nil {
			logger.Error("Failed to auto-return expired borrows", "error", err)
			return
		}

		logger.Info("Auto-returned expired borrows", "count", len(expired))

		for _, rec := range expired {
			logger.Debug("Auto-returned borrow",
				"record_id", rec.ID,
				"book_id", rec.BookID,
				"borrower_id", rec.BorrowerID)

			book, err := jr.services.Catalog.GetBook(ctx, rec.BookID)
			if err != nil {
				logger.Error("Failed to load book for auto-return notice",
					"book_id", rec.BookID, "error", err)
				continue
			}

			if err := jr.services.Email.SendAutoReturnNotice(ctx, rec.BorrowerID, book.Title, now); err != nil {
				logger.Error("Failed to send auto-return notice",
					"record_id", rec.ID,
					"borrower_id", rec.BorrowerID,
					"error", err)
				continue
			}
		}
	})
}

// SendReturnReminders emails borrowers whose loans fall due within the
// configured lead window.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()
		lead := time.Duration(jr.config.Lending.ReminderLeadHours) * time.Hour

		due, err := jr.services.Lending.ListDueSoon(ctx, now, lead)
		if err != nil {
			logger.Error("Failed to list borrows due soon", "error", err)
			return
		}

		sent := 0
		for _, rec := range due {
			if rec.ReturnBy == nil {
				continue
			}

			book, err := jr.services.Catalog.GetBook(ctx, rec.BookID)
			if err != nil {
				logger.Error("Failed to load book for return reminder",
					"book_id", rec.BookID, "error", err)
				continue
			}

			if err := jr.services.Email.SendReturnReminder(ctx, rec.BorrowerID, book.Title, *rec.ReturnBy); err != nil {
				logger.Error("Failed to send return reminder",
					"record_id", rec.ID,
					"borrower_id", rec.BorrowerID,
					"error", err)
				continue
			}

			sent++
			logger.Debug("Sent return reminder",
				"record_id", rec.ID,
				"borrower_id", rec.BorrowerID,
				"return_by", *rec.ReturnBy)
		}

		logger.Info("Return reminders sent", "count", sent)
	})
}
