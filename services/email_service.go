package services

import (
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"html"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

// Mailer sends the optional email copy of owner alerts.
type Mailer interface {
	Enabled() bool
	SendNewOrderEmail(to string, placed *PlacedOrder) error
}

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.EmailConfig
	client *resend.Client
}

var _ Mailer = (*EmailService)(nil)

func NewEmailService(logger *gecho.Logger, cfg *structs.EmailConfig) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Enabled reports whether an API key is configured.
func (es *EmailService) Enabled() bool {
	return es.cfg.ApiKey != ""
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendNewOrderEmail mails the restaurant owner a copy of the new order alert.
func (es *EmailService) SendNewOrderEmail(to string, placed *PlacedOrder) error {
	var items strings.Builder
	for _, item := range placed.Items {
		fmt.Fprintf(&items, "<li>%dx %s - %s</li>",
			item.Quantity, html.EscapeString(item.ItemName), lib.FormatRupees(item.PricePaise*int64(item.Quantity)))
	}

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #E65100; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.order-details { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>New order #%d</h1>
				</div>
				<div class="content">
					<p>%s received a new order over WhatsApp.</p>
					<div class="order-details">
						<p><strong>Customer:</strong> %s (%s)</p>
						<ul>%s</ul>
						<p><strong>Total: %s</strong></p>
						<p><strong>Payment:</strong> %s</p>
						<h4>Delivery address:</h4>
						<p>%s</p>
					</div>
					<p>Reply ACCEPT %d or REJECT %d on WhatsApp to process it.</p>
				</div>
			</div>
		</body>
		</html>
	`, placed.Order.Id,
		html.EscapeString(placed.Restaurant.Name),
		html.EscapeString(placed.CustomerName), html.EscapeString(placed.CustomerPhone),
		items.String(),
		lib.FormatRupees(placed.Order.TotalPaise),
		placed.Order.PaymentMethod,
		html.EscapeString(placed.Order.DeliveryAddress),
		placed.Order.Id, placed.Order.Id)

	subject := fmt.Sprintf("New order #%d for %s", placed.Order.Id, placed.Restaurant.Name)

	return es.SendEmail([]string{to}, subject, emailBody)
}
