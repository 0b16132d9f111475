package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/time/rate"
)

type sendgridEmailService struct {
	apiKey    string
	fromName  string
	fromEmail string
	limiter   *rate.Limiter
}

// NewEmailService builds the SendGrid-backed mailer. Sends are paced so a
// large sweep batch cannot flood the provider.
func NewEmailService(apiKey, fromName, fromEmail string) EmailService {
	return &sendgridEmailService{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
		limiter:   rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (s *sendgridEmailService) send(ctx context.Context, to, subject, body string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmailPlainText(from, subject, recipient, body)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendAutoReturnNotice(ctx context.Context, email, bookTitle string, returnedAt time.Time) error {
	subject := fmt.Sprintf("Returned automatically: %s", bookTitle)
	body := fmt.Sprintf("Hello,\n\nYour loan of %q reached its return deadline and was returned automatically at %s.\n\nIf you still need the book, you can borrow it again while it is available.\n\nBest regards,\nThe Library Team", bookTitle, returnedAt.Format(time.RFC1123))

	return s.send(ctx, email, subject, body)
}

func (s *sendgridEmailService) SendReturnReminder(ctx context.Context, email, bookTitle string, returnBy time.Time) error {
	subject := fmt.Sprintf("Return reminder: %s", bookTitle)
	body := fmt.Sprintf("Hello,\n\nYour loan of %q is due back by %s. Loans past their deadline are returned automatically.\n\nBest regards,\nThe Library Team", bookTitle, returnBy.Format(time.RFC1123))

	return s.send(ctx, email, subject, body)
}
