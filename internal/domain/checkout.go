package domain

// CheckoutStep identifies the current step of the checkout flow.
// Steps are traversed strictly forward with Next and backward with Back.
type CheckoutStep int

const (
	StepContact CheckoutStep = iota
	StepDelivery
	StepPayment
	StepConfirm
)

// String returns the step name used in logs and API responses.
func (s CheckoutStep) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	}
	return "unknown"
}
