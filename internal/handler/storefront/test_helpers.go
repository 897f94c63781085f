package storefront

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LucasAlvarez99/LA-PICADA/internal/catalog"
	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/notify"
	"github.com/LucasAlvarez99/LA-PICADA/internal/payment"
	"github.com/LucasAlvarez99/LA-PICADA/internal/session"
)

// testFixture bundles the handlers and their collaborators for a test run.
// Metrics are nil so tests never touch the global Prometheus registry.
type testFixture struct {
	products *ProductHandler
	cart     *CartHandler
	checkout *CheckoutHandler
	sessions *session.Registry
	notifier *notify.MockNotifier
	payments *payment.MockProvider
	catalog  *catalog.MemoryProvider
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Jamón Serrano", Price: 2850, Unit: "100g", Category: "jamones", Stock: 50, Active: true},
		{ID: 2, Name: "Salame de Milán", Price: 1900, Unit: "100g", Category: "embutidos", Stock: 30, Active: true},
		{ID: 3, Name: "Queso Brie", Price: 3200, Unit: "unidad", Category: "quesos", Stock: 0, Active: false},
	}
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	provider := catalog.NewMemoryProvider(testProducts())
	notifier := notify.NewMockNotifier()
	payments := payment.NewMockProvider()
	shop := notify.ShopInfo{Name: "La Picada", WhatsAppPhone: "5491112345678"}
	sessions := session.NewRegistry(notifier, payments, shop, nil)

	return &testFixture{
		products: NewProductHandler(provider, nil, nil),
		cart:     NewCartHandler(sessions, provider, nil, nil, false),
		checkout: NewCheckoutHandler(sessions, nil, nil, false),
		sessions: sessions,
		notifier: notifier,
		payments: payments,
		catalog:  provider,
	}
}

// doJSON performs a request with a JSON body, carrying the session cookie
// between calls the way a browser would.
func (f *testFixture) doJSON(t *testing.T, h http.HandlerFunc, method, target string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	h(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	return w, cookie
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return v
}
