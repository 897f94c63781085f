package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// SMTPConfig holds SMTP connection parameters for the email notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string
	From     string // sender address, e.g. "pedidos@lapicada.com"
	FromName string

	// OperatorEmail is the fixed address that receives each order.
	OperatorEmail string
}

// EmailNotifier delivers order notifications to the operator mailbox via
// SMTP. It renders both a plain-text body (the same message used for
// WhatsApp) and an HTML summary.
type EmailNotifier struct {
	config SMTPConfig
	shop   ShopInfo
	logger *slog.Logger
}

// NewEmailNotifier creates an SMTP-backed order notifier.
func NewEmailNotifier(config SMTPConfig, shop ShopInfo, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{
		config: config,
		shop:   shop,
		logger: logger,
	}
}

var orderEmailTmpl = template.Must(template.New("order").Parse(`<h2>Nuevo pedido recibido</h2>
<p><b>Número de orden:</b> {{.OrderNumber}}</p>
<p><b>Cliente:</b> {{.Customer.Name}}</p>
<p><b>Teléfono:</b> {{.Customer.Phone}}</p>
<p><b>Email:</b> {{.Customer.Email}}</p>
<p><b>Entrega:</b> {{.DeliveryLabel}}</p>
<p><b>Medio de pago:</b> {{.PaymentLabel}}</p>
<h3>Productos</h3>
<ul>
{{range .Items}}<li>{{.Quantity}}x {{.Name}} ({{.Unit}}) - ${{.UnitPrice}}</li>
{{end}}</ul>
<p><b>Subtotal:</b> ${{.Pricing.Subtotal}}</p>
{{if gt .Pricing.Discount 0}}<p><b>Descuento:</b> -${{.Pricing.Discount}}</p>{{end}}
{{if gt .Pricing.DeliveryFee 0}}<p><b>Envío:</b> ${{.Pricing.DeliveryFee}}</p>{{end}}
<p><b>Total:</b> ${{.Pricing.FinalTotal}}</p>`))

type orderEmailData struct {
	domain.OrderSummary
	DeliveryLabel string
	PaymentLabel  string
}

// NotifyOrder sends the order email and blocks until the SMTP dialog
// completes, returning any delivery failure.
func (n *EmailNotifier) NotifyOrder(ctx context.Context, order domain.OrderSummary) error {
	data := orderEmailData{
		OrderSummary:  order,
		DeliveryLabel: "Envío a domicilio",
		PaymentLabel:  PaymentMethodLabel(order.PaymentMethod),
	}
	if order.Customer.DeliveryMethod == domain.DeliveryMethodPickup {
		data.DeliveryLabel = "Retiro en local"
	}

	var htmlBody bytes.Buffer
	if err := orderEmailTmpl.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render order email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.config.FromName, n.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(n.config.OperatorEmail); err != nil {
		return fmt.Errorf("invalid operator address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Nuevo pedido #%s", order.OrderNumber))
	msg.SetBodyString(mail.TypeTextPlain, FormatOrderMessage(order, n.shop))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody.String())

	opts := []mail.Option{
		mail.WithPort(n.config.Port),
		mail.WithTimeout(30 * time.Second),
	}
	if n.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.config.Username),
			mail.WithPassword(n.config.Password),
		)
	}

	client, err := mail.NewClient(n.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		n.logger.Error("smtp: failed to send order notification",
			"order_number", order.OrderNumber, "error", err)
		return fmt.Errorf("failed to send order notification: %w", err)
	}

	n.logger.Info("smtp: order notification sent",
		"order_number", order.OrderNumber, "to", n.config.OperatorEmail)
	return nil
}
