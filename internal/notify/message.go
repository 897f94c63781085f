package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
)

// FormatOrderMessage renders the human-readable order message sent to the
// operator: order number, customer contact block, delivery or pickup block,
// payment method and status, itemized list, and the full pricing summary.
func FormatOrderMessage(order domain.OrderSummary, shop ShopInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 *NUEVO PEDIDO - %s*\n\n", strings.ToUpper(shop.Name))
	fmt.Fprintf(&b, "📋 *Orden:* #%s\n\n", order.OrderNumber)

	b.WriteString("👤 *CLIENTE:*\n")
	fmt.Fprintf(&b, "• Nombre: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "• Teléfono: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "• Email: %s\n\n", order.Customer.Email)

	if order.Customer.DeliveryMethod == domain.DeliveryMethodPickup {
		b.WriteString("🏪 *RETIRO EN LOCAL*\n")
		if shop.Address != "" {
			fmt.Fprintf(&b, "📍 %s\n", shop.Address)
		}
	} else {
		b.WriteString("🚚 *ENVÍO A DOMICILIO*\n")
		fmt.Fprintf(&b, "📍 %s, %s\n", order.Customer.Address, order.Customer.City)
	}
	if order.Customer.DeliveryTime != "" {
		fmt.Fprintf(&b, "⏰ *Horario preferido:* %s\n", order.Customer.DeliveryTime)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "💳 *PAGO:* %s\n", PaymentMethodLabel(order.PaymentMethod))
	fmt.Fprintf(&b, "📊 *Estado:* %s\n\n", paymentStatusLabel(order.PaymentStatus))

	b.WriteString("🛍️ *PRODUCTOS:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s (%s) - $%d\n",
			item.Quantity, item.Name, item.Unit, item.UnitPrice*int64(item.Quantity))
	}
	b.WriteString("\n")

	b.WriteString("💰 *RESUMEN:*\n")
	fmt.Fprintf(&b, "Subtotal: $%d\n", order.Pricing.Subtotal)
	if order.Pricing.Discount > 0 {
		fmt.Fprintf(&b, "💰 Descuento: -$%d\n", order.Pricing.Discount)
	}
	if order.Pricing.DeliveryFee > 0 {
		fmt.Fprintf(&b, "🚚 Envío: $%d\n", order.Pricing.DeliveryFee)
	}
	fmt.Fprintf(&b, "*TOTAL: $%d*\n\n", order.Pricing.FinalTotal)

	if order.Customer.Notes != "" {
		fmt.Fprintf(&b, "📝 *Notas:* %s\n\n", order.Customer.Notes)
	}

	b.WriteString("---\n⚡ Pedido generado automáticamente")

	return b.String()
}

// WhatsAppURL builds the wa.me deep link that opens a chat with the
// operator, pre-loaded with the formatted order message. The storefront
// redirects the customer's browser to this URL after confirmation.
func WhatsAppURL(order domain.OrderSummary, shop ShopInfo) string {
	message := FormatOrderMessage(order, shop)
	return fmt.Sprintf("https://wa.me/%s?text=%s", shop.WhatsAppPhone, url.QueryEscape(message))
}

// PaymentMethodLabel returns the display label for a payment method.
func PaymentMethodLabel(method domain.PaymentMethod) string {
	switch method {
	case domain.PaymentCash:
		return "💵 Efectivo (contra entrega)"
	case domain.PaymentTransfer:
		return "🏦 Transferencia bancaria"
	case domain.PaymentMercadoPago:
		return "💙 MercadoPago"
	}
	return string(method)
}

func paymentStatusLabel(status domain.PaymentStatus) string {
	if status == domain.PaymentStatusPending {
		return "Pendiente de confirmación"
	}
	return "Confirmado"
}
