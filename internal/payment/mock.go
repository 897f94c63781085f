package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MockProvider is a mock payment provider for testing and local
// development. Simulates successful preference creation without calling
// the MercadoPago API.
type MockProvider struct {
	// CreatePreferenceFunc allows customizing preference creation behavior.
	CreatePreferenceFunc func(ctx context.Context, params PreferenceParams) (*Preference, error)

	// Preferences stores created preferences keyed by ID.
	Preferences map[string]*Preference

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Preferences: make(map[string]*Preference),
	}
}

// CreatePreference creates a mock preference.
func (m *MockProvider) CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreatePreference(%s)", params.OrderNumber))

	if m.CreatePreferenceFunc != nil {
		return m.CreatePreferenceFunc(ctx, params)
	}

	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	pref := &Preference{
		ID:        "MP-" + params.OrderNumber + "-" + uuid.New().String()[:8],
		InitPoint: "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=MP-" + params.OrderNumber,
	}
	m.Preferences[pref.ID] = pref
	return pref, nil
}
