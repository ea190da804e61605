// utils/email.go
package utils

import (
	"fmt"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog"

	"go-ecommerce-api/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
	logger zerolog.Logger
}

// NewEmailService returns an EmailService. Without an API token messages are
// only written to the log.
func NewEmailService(apiToken, sender string, logger zerolog.Logger) *EmailService {
	es := &EmailService{sender: sender, logger: logger.With().Str("component", "email").Logger()}
	if apiToken != "" {
		es.client = postmark.NewClient(apiToken, "")
	}
	return es
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		es.logger.Info().Str("to", toEmail).Str("subject", subject).Msg("email delivery disabled, message dropped")
		return nil
	}

	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Debug().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject, body := OrderConfirmationEmail(order)
	return es.SendEmail(toEmail, subject, body)
}

// SendOrderStatusEmail tells the user their order moved to a new status.
func (es *EmailService) SendOrderStatusEmail(toEmail string, order models.Order) error {
	subject, body := OrderStatusEmail(order)
	return es.SendEmail(toEmail, subject, body)
}

// OrderConfirmationEmail renders the subject and HTML body of an order confirmation.
func OrderConfirmationEmail(order models.Order) (string, string) {
	shipTo := order.Address
	if shipTo == "" {
		shipTo = "your address on file"
	}
	return "Order Confirmation", fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %d) has been placed successfully and will be shipped to <strong>%s</strong>.<br><br>Total Amount: <strong>$%s</strong><br><br>Thank you for shopping with us!",
		order.ID,
		shipTo,
		order.NetAmount.StringFixed(2),
	)
}

// OrderStatusEmail renders the subject and HTML body of a status change notice.
func OrderStatusEmail(order models.Order) (string, string) {
	return fmt.Sprintf("Order #%d: %s", order.ID, order.Status), fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>The status of your order (ID: %d) is now <strong>%s</strong>.",
		order.ID,
		order.Status,
	)
}
