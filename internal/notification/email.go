package notification

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail to merchants and customers.
// All sends are best-effort: callers log failures and move on.
type EmailService interface {
	SendOrderStatusEmail(to, name, orderNo, status string) error
	SendProviderStatusEmail(to, providerName, status, reason string) error
	SendAccountBannedEmail(to, name, reason string) error
	SendSettlementDueEmail(to, providerName, settlementNo, amount, dueDate string) error
}

type sendgridEmailService struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewEmailService builds the sendgrid-backed mailer. With no API key
// configured it returns a no-op implementation so local development
// does not need sendgrid credentials.
func NewEmailService() EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not set, email notifications disabled")
		return &noopEmailService{}
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = "noreply@marketplace.local"
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Marketplace"
	}

	return &sendgridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *sendgridEmailService) send(to, toName, subject, plain, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plain, html)

	resp, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendOrderStatusEmail(to, name, orderNo, status string) error {
	subject := fmt.Sprintf("Order %s update", orderNo)
	plain := fmt.Sprintf("Hi %s,\n\nYour order %s is now %s.\n", name, orderNo, status)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>", name, orderNo, status)
	return s.send(to, name, subject, plain, html)
}

func (s *sendgridEmailService) SendProviderStatusEmail(to, providerName, status, reason string) error {
	subject := fmt.Sprintf("Your store application is %s", status)
	plain := fmt.Sprintf("Hello,\n\nThe status of %s changed to %s.", providerName, status)
	if reason != "" {
		plain += "\nReason: " + reason
	}
	html := fmt.Sprintf("<p>The status of <strong>%s</strong> changed to <strong>%s</strong>.</p>", providerName, status)
	if reason != "" {
		html += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	return s.send(to, providerName, subject, plain, html)
}

func (s *sendgridEmailService) SendAccountBannedEmail(to, name, reason string) error {
	subject := "Your account has been suspended"
	plain := fmt.Sprintf("Hi %s,\n\nYour account has been suspended.", name)
	if reason != "" {
		plain += "\nReason: " + reason
	}
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your account has been suspended.</p>", name)
	if reason != "" {
		html += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	return s.send(to, name, subject, plain, html)
}

func (s *sendgridEmailService) SendSettlementDueEmail(to, providerName, settlementNo, amount, dueDate string) error {
	subject := fmt.Sprintf("Settlement %s is due", settlementNo)
	plain := fmt.Sprintf("Hello %s,\n\nSettlement %s for %s is due on %s.", providerName, settlementNo, amount, dueDate)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Settlement <strong>%s</strong> for <strong>%s</strong> is due on %s.</p>",
		providerName, settlementNo, amount, dueDate)
	return s.send(to, providerName, subject, plain, html)
}

type noopEmailService struct{}

func (n *noopEmailService) SendOrderStatusEmail(to, name, orderNo, status string) error {
	log.Printf("email disabled, skipping order status mail to %s for %s", to, orderNo)
	return nil
}

func (n *noopEmailService) SendProviderStatusEmail(to, providerName, status, reason string) error {
	log.Printf("email disabled, skipping provider status mail to %s", to)
	return nil
}

func (n *noopEmailService) SendAccountBannedEmail(to, name, reason string) error {
	log.Printf("email disabled, skipping ban mail to %s", to)
	return nil
}

func (n *noopEmailService) SendSettlementDueEmail(to, providerName, settlementNo, amount, dueDate string) error {
	log.Printf("email disabled, skipping settlement due mail to %s", to)
	return nil
}
