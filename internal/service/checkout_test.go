package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/notify"
	"github.com/LucasAlvarez99/LA-PICADA/internal/payment"
)

// ============================================================================
// Test fixtures
// ============================================================================

func testShopInfo() notify.ShopInfo {
	return notify.ShopInfo{
		Name:          "La Picada",
		Address:       "Coronel Martiniano Chilavert 6345, CABA",
		WhatsAppPhone: "5491125925851",
	}
}

// newTestCheckout builds a checkout over a fresh cart with mock
// collaborators and a fixed clock.
func newTestCheckout(t *testing.T) (*Checkout, *Cart, *notify.MockNotifier, *payment.MockProvider) {
	t.Helper()

	cart := NewCart()
	notifier := notify.NewMockNotifier()
	payments := payment.NewMockProvider()

	co := NewCheckout(cart, notifier, payments, testShopInfo(), nil)
	co.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	co.newOrderNumber = func(time.Time) string { return "LP123456" }

	return co, cart, notifier, payments
}

func fillContact(co *Checkout) {
	co.SetField(FieldName, "Juan Pérez")
	co.SetField(FieldEmail, "juan@email.com")
	co.SetField(FieldPhone, "11 1234-5678")
}

func fillDeliveryAddress(co *Checkout, city string) {
	co.SetField(FieldAddress, "Av. Corrientes 1234")
	co.SetField(FieldCity, city)
	co.SetField(FieldPostalCode, "1043")
}

// advanceToConfirm walks a fully valid draft to the confirmation step.
func advanceToConfirm(t *testing.T, co *Checkout, city string, method domain.PaymentMethod) {
	t.Helper()

	fillContact(co)
	if err := co.Next(); err != nil {
		t.Fatalf("Next from contact failed: %v", err)
	}
	fillDeliveryAddress(co, city)
	if err := co.Next(); err != nil {
		t.Fatalf("Next from delivery failed: %v", err)
	}
	if err := co.SetPaymentMethod(method); err != nil {
		t.Fatalf("SetPaymentMethod failed: %v", err)
	}
	if err := co.Next(); err != nil {
		t.Fatalf("Next from payment failed: %v", err)
	}
	if co.Step() != domain.StepConfirm {
		t.Fatalf("step = %s, want confirm", co.Step())
	}
}

// ============================================================================
// Step transitions and validation
// ============================================================================

func TestCheckout_InitialState(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)

	if co.Step() != domain.StepContact {
		t.Errorf("initial step = %s, want contact", co.Step())
	}
	if co.Customer().DeliveryMethod != domain.DeliveryMethodDelivery {
		t.Error("delivery method should default to delivery")
	}
	if len(co.FieldErrors()) != 0 {
		t.Error("initial state should have no field errors")
	}
}

func TestCheckout_Next_EmptyContactFails(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)

	err := co.Next()
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if co.Step() != domain.StepContact {
		t.Error("machine should stay at contact on validation failure")
	}

	fields := domain.GetValidationFields(err)
	for _, f := range []string{FieldName, FieldEmail, FieldPhone} {
		if fields[f] == "" {
			t.Errorf("missing error for field %q", f)
		}
	}
}

func TestCheckout_Next_EmptyEmailOnly(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	co.SetField(FieldName, "Juan Pérez")
	co.SetField(FieldPhone, "11 1234-5678")

	err := co.Next()
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if co.Step() != domain.StepContact {
		t.Error("machine should stay at contact")
	}

	fields := co.FieldErrors()
	if len(fields) != 1 {
		t.Fatalf("expected exactly 1 field error, got %d: %v", len(fields), fields)
	}
	if fields[FieldEmail] == "" {
		t.Error("expected a non-empty error for the email field")
	}
}

func TestCheckout_Next_RejectsMalformedContact(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     string
		wantField string
	}{
		{"bad email", FieldEmail, "not-an-email", FieldEmail},
		{"email without domain", FieldEmail, "juan@", FieldEmail},
		{"phone with letters", FieldPhone, "call me", FieldPhone},
		{"phone too short", FieldPhone, "123", FieldPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co, _, _, _ := newTestCheckout(t)
			fillContact(co)
			co.SetField(tt.field, tt.value)

			err := co.Next()
			if !domain.IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if co.FieldErrors()[tt.wantField] == "" {
				t.Errorf("expected error on field %q, got %v", tt.wantField, co.FieldErrors())
			}
		})
	}
}

func TestCheckout_SetField_ClearsOnlyThatError(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)

	_ = co.Next() // all three contact fields now carry errors
	if len(co.FieldErrors()) != 3 {
		t.Fatalf("expected 3 errors, got %v", co.FieldErrors())
	}

	co.SetField(FieldEmail, "juan@email.com")

	fields := co.FieldErrors()
	if fields[FieldEmail] != "" {
		t.Error("email error should be cleared after retyping the field")
	}
	if fields[FieldName] == "" || fields[FieldPhone] == "" {
		t.Error("other fields' errors must persist")
	}
}

func TestCheckout_SetField_UnknownField(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)

	err := co.SetField("favoriteColor", "red")
	if !domain.IsCode(err, domain.EINVALID) {
		t.Errorf("expected EINVALID, got %v", err)
	}
}

func TestCheckout_Next_DeliveryRequiresAddress(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	if err := co.Next(); err != nil {
		t.Fatalf("Next from contact failed: %v", err)
	}

	err := co.Next()
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := co.FieldErrors()
	for _, f := range []string{FieldAddress, FieldCity, FieldPostalCode} {
		if fields[f] == "" {
			t.Errorf("missing error for field %q", f)
		}
	}
	if co.Step() != domain.StepDelivery {
		t.Error("machine should stay at delivery")
	}
}

func TestCheckout_Next_PickupSkipsAddress(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	if err := co.Next(); err != nil {
		t.Fatalf("Next from contact failed: %v", err)
	}

	co.SetDeliveryMethod(domain.DeliveryMethodPickup)
	if err := co.Next(); err != nil {
		t.Fatalf("Next with pickup should not require address, got %v", err)
	}
	if co.Step() != domain.StepPayment {
		t.Errorf("step = %s, want payment", co.Step())
	}
}

func TestCheckout_Next_PaymentMethodRequired(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	co.Next()
	fillDeliveryAddress(co, "CABA")
	co.Next()

	err := co.Next()
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := co.FieldErrors()
	if len(fields) != 1 || fields[FieldPaymentMethod] == "" {
		t.Errorf("expected a single paymentMethod error, got %v", fields)
	}

	if err := co.SetPaymentMethod(domain.PaymentCash); err != nil {
		t.Fatalf("SetPaymentMethod failed: %v", err)
	}
	if len(co.FieldErrors()) != 0 {
		t.Error("selecting a method should clear its error")
	}
	if err := co.Next(); err != nil {
		t.Fatalf("Next after selecting method failed: %v", err)
	}
	if co.Step() != domain.StepConfirm {
		t.Errorf("step = %s, want confirm", co.Step())
	}
}

func TestCheckout_SetPaymentMethod_RejectsUnknown(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)

	err := co.SetPaymentMethod(domain.PaymentMethod("bitcoin"))
	if !domain.IsCode(err, domain.EINVALID) {
		t.Errorf("expected EINVALID, got %v", err)
	}
}

func TestCheckout_Back_ClearsErrorsKeepsData(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	co.Next()
	_ = co.Next() // delivery validation fails, errors set

	co.Back()

	if co.Step() != domain.StepContact {
		t.Errorf("step after Back = %s, want contact", co.Step())
	}
	if len(co.FieldErrors()) != 0 {
		t.Error("Back should clear pending field errors")
	}
	if co.Customer().Name != "Juan Pérez" {
		t.Error("Back must not discard entered data")
	}

	// Back at the initial step is a no-op.
	co.Back()
	if co.Step() != domain.StepContact {
		t.Error("Back at contact should stay at contact")
	}
}

func TestCheckout_Cancel_DiscardsDraft(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	co.Next()
	fillDeliveryAddress(co, "CABA")

	co.Cancel()

	if co.Step() != domain.StepContact {
		t.Errorf("step after Cancel = %s, want contact", co.Step())
	}
	if co.Customer().Name != "" || co.Customer().Address != "" {
		t.Error("Cancel should discard the entire draft")
	}
	if co.Customer().DeliveryMethod != domain.DeliveryMethodDelivery {
		t.Error("Cancel should restore the delivery default")
	}
}

func TestCheckout_SwitchingToPickupPreservesAddress(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	fillContact(co)
	co.Next()
	fillDeliveryAddress(co, "CABA")

	co.SetDeliveryMethod(domain.DeliveryMethodPickup)
	if co.Customer().Address != "Av. Corrientes 1234" {
		t.Error("switching to pickup must preserve entered address fields")
	}

	co.SetDeliveryMethod(domain.DeliveryMethodDelivery)
	if co.Customer().City != "CABA" {
		t.Error("switching back must find the address intact")
	}
}

// ============================================================================
// Delivery fee recomputation
// ============================================================================

func TestCheckout_DeliveryFee_RecomputesOnCityChange(t *testing.T) {
	co, cart, _, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2) // subtotal 5700

	fillContact(co)
	co.Next()

	co.SetField(FieldCity, "CABA")
	if co.DeliveryFee() != 800 {
		t.Errorf("fee for CABA = %d, want 800", co.DeliveryFee())
	}

	co.SetField(FieldCity, "zona norte")
	if co.DeliveryFee() != 1000 {
		t.Errorf("fee for zona norte = %d, want 1000", co.DeliveryFee())
	}

	co.SetField(FieldCity, "Mar del Plata")
	if co.DeliveryFee() != 1500 {
		t.Errorf("fee for unknown city = %d, want default 1500", co.DeliveryFee())
	}
}

func TestCheckout_DeliveryFee_PickupIsFree(t *testing.T) {
	co, cart, _, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	fillContact(co)
	co.Next()
	co.SetField(FieldCity, "CABA")

	co.SetDeliveryMethod(domain.DeliveryMethodPickup)
	if co.DeliveryFee() != 0 {
		t.Errorf("pickup fee = %d, want 0", co.DeliveryFee())
	}

	co.SetDeliveryMethod(domain.DeliveryMethodDelivery)
	if co.DeliveryFee() != 800 {
		t.Errorf("fee after switching back = %d, want 800", co.DeliveryFee())
	}
}

func TestCheckout_DeliveryFee_FreeAboveThreshold(t *testing.T) {
	co, cart, _, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 4000, 50), 4) // subtotal 16000

	fillContact(co)
	co.Next()
	co.SetField(FieldCity, "Mar del Plata")

	if co.DeliveryFee() != 0 {
		t.Errorf("fee above free-shipping threshold = %d, want 0", co.DeliveryFee())
	}
}

// ============================================================================
// Confirm
// ============================================================================

func TestCheckout_Confirm_BeforeConfirmStepFails(t *testing.T) {
	co, cart, _, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	_, err := co.Confirm(context.Background())
	if !domain.IsCode(err, domain.EINVALID) {
		t.Errorf("expected EINVALID, got %v", err)
	}
}

func TestCheckout_Confirm_EmptyCartFails(t *testing.T) {
	co, _, _, _ := newTestCheckout(t)
	advanceToConfirm(t, co, "CABA", domain.PaymentCash)

	_, err := co.Confirm(context.Background())
	if !domain.IsCode(err, domain.EINVALID) {
		t.Errorf("expected EINVALID for empty cart, got %v", err)
	}
}

func TestCheckout_Confirm_EndToEnd(t *testing.T) {
	co, cart, notifier, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	advanceToConfirm(t, co, "zona norte", domain.PaymentCash)

	result, err := co.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	summary := result.Summary
	if summary.OrderNumber != "LP123456" {
		t.Errorf("order number = %q, want LP123456", summary.OrderNumber)
	}
	if summary.Pricing.Subtotal != 5700 {
		t.Errorf("subtotal = %d, want 5700", summary.Pricing.Subtotal)
	}
	if summary.Pricing.Discount != 0 {
		t.Errorf("discount = %d, want 0 for 2 items", summary.Pricing.Discount)
	}
	if summary.Pricing.DeliveryFee != 1000 {
		t.Errorf("delivery fee = %d, want 1000 for zona norte", summary.Pricing.DeliveryFee)
	}
	if summary.Pricing.FinalTotal != 6700 {
		t.Errorf("final total = %d, want 6700", summary.Pricing.FinalTotal)
	}
	if summary.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", summary.PaymentStatus)
	}
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 2 {
		t.Errorf("unexpected items snapshot: %+v", summary.Items)
	}

	if len(notifier.Orders) != 1 {
		t.Fatalf("notifier received %d orders, want 1", len(notifier.Orders))
	}
	if result.WhatsAppURL == "" {
		t.Error("result should carry the operator WhatsApp link")
	}

	// Success resets everything.
	if !cart.IsEmpty() {
		t.Error("cart should be cleared after successful handoff")
	}
	if co.Step() != domain.StepContact {
		t.Errorf("step after success = %s, want contact", co.Step())
	}
	if co.Customer().Name != "" {
		t.Error("customer draft should be discarded after success")
	}
}

func TestCheckout_Confirm_DiscountTiers(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantDiscount int64
	}{
		{"five items", 5, 1000},
		{"three items", 3, 500},
		{"two items", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co, cart, _, _ := newTestCheckout(t)
			price := int64(10000) / int64(tt.quantity)
			cart.AddItem(makeTestProduct(1, "Picada Completa", price, 50), tt.quantity)
			subtotal := price * int64(tt.quantity)

			advanceToConfirm(t, co, "CABA", domain.PaymentCash)

			result, err := co.Confirm(context.Background())
			if err != nil {
				t.Fatalf("Confirm failed: %v", err)
			}

			wantDiscount := int64(0)
			switch {
			case tt.quantity >= 5:
				wantDiscount = subtotal / 10
			case tt.quantity >= 3:
				wantDiscount = subtotal * 5 / 100
			}
			if wantDiscount != tt.wantDiscount && subtotal == 10000 {
				t.Fatalf("fixture error: wantDiscount %d != %d", wantDiscount, tt.wantDiscount)
			}
			if result.Summary.Pricing.Discount != wantDiscount {
				t.Errorf("discount = %d, want %d", result.Summary.Pricing.Discount, wantDiscount)
			}
		})
	}
}

func TestCheckout_Confirm_MercadoPagoRedirect(t *testing.T) {
	co, cart, _, payments := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	advanceToConfirm(t, co, "CABA", domain.PaymentMercadoPago)

	result, err := co.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if result.PaymentRedirectURL == "" {
		t.Error("mercadopago orders should carry a redirect URL")
	}
	if len(payments.CallLog) != 1 {
		t.Errorf("payment provider calls = %d, want 1", len(payments.CallLog))
	}
}

func TestCheckout_Confirm_TransferInstructions(t *testing.T) {
	co, cart, _, payments := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	advanceToConfirm(t, co, "CABA", domain.PaymentTransfer)

	result, err := co.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if result.PaymentInstructions == "" {
		t.Error("transfer orders should carry inline instructions")
	}
	if result.PaymentRedirectURL != "" {
		t.Error("transfer orders should not redirect")
	}
	if len(payments.CallLog) != 0 {
		t.Error("transfer orders must not call the payment provider")
	}
}

func TestCheckout_Confirm_NotificationFailureKeepsState(t *testing.T) {
	co, cart, notifier, _ := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	advanceToConfirm(t, co, "CABA", domain.PaymentCash)

	notifier.NotifyOrderFunc = func(ctx context.Context, order domain.OrderSummary) error {
		return errors.New("whatsapp unreachable")
	}

	_, err := co.Confirm(context.Background())
	if !domain.IsHandoffError(err) {
		t.Fatalf("expected HandoffError, got %v", err)
	}

	// State preserved for retry.
	if co.Step() != domain.StepConfirm {
		t.Errorf("step after failed handoff = %s, want confirm", co.Step())
	}
	if cart.IsEmpty() {
		t.Error("cart must not be cleared on failed handoff")
	}
	if co.Customer().Name != "Juan Pérez" {
		t.Error("customer data must survive a failed handoff")
	}

	// Retry succeeds without re-entering anything.
	notifier.NotifyOrderFunc = nil
	result, err := co.Confirm(context.Background())
	if err != nil {
		t.Fatalf("retry Confirm failed: %v", err)
	}
	if result.Summary.Pricing.FinalTotal != 6500 {
		t.Errorf("retry final total = %d, want 6500", result.Summary.Pricing.FinalTotal)
	}
	if !cart.IsEmpty() {
		t.Error("cart should clear after the successful retry")
	}
}

func TestCheckout_Confirm_PaymentFailureSkipsNotification(t *testing.T) {
	co, cart, notifier, payments := newTestCheckout(t)
	cart.AddItem(makeTestProduct(1, "Jamón Serrano", 2850, 50), 2)

	advanceToConfirm(t, co, "CABA", domain.PaymentMercadoPago)

	payments.CreatePreferenceFunc = func(ctx context.Context, params payment.PreferenceParams) (*payment.Preference, error) {
		return nil, errors.New("api down")
	}

	_, err := co.Confirm(context.Background())
	if !domain.IsHandoffError(err) {
		t.Fatalf("expected HandoffError, got %v", err)
	}
	if len(notifier.Orders) != 0 {
		t.Error("notification must not fire when the payment handoff fails")
	}
	if co.Step() != domain.StepConfirm {
		t.Error("state must be preserved for retry")
	}
}

func TestOrderNumber_Format(t *testing.T) {
	n := OrderNumber(time.UnixMilli(1748000123456))
	if len(n) != 8 {
		t.Fatalf("order number %q should be 8 chars", n)
	}
	if n[:2] != "LP" {
		t.Errorf("order number %q should start with LP", n)
	}
	for _, r := range n[2:] {
		if r < '0' || r > '9' {
			t.Errorf("order number suffix should be digits, got %q", n)
		}
	}
	if n != "LP123456" {
		t.Errorf("OrderNumber(…123456ms) = %q, want LP123456", n)
	}
}
