package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.mercadopago.com"

// MercadoPagoConfig holds MercadoPago API credentials and redirect targets.
type MercadoPagoConfig struct {
	AccessToken string

	// BackURL is the storefront base URL the customer returns to after
	// paying (success/failure/pending paths are derived from it).
	BackURL string

	// APIBase overrides the API endpoint, used in tests.
	APIBase string
}

// MercadoPagoProvider implements Provider against the MercadoPago checkout
// preferences REST API.
type MercadoPagoProvider struct {
	config MercadoPagoConfig
	client *http.Client
	logger *slog.Logger
}

// NewMercadoPagoProvider creates a MercadoPago-backed payment provider.
func NewMercadoPagoProvider(config MercadoPagoConfig, logger *slog.Logger) (*MercadoPagoProvider, error) {
	if config.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if config.APIBase == "" {
		config.APIBase = defaultAPIBase
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MercadoPagoProvider{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}, nil
}

type preferenceRequest struct {
	Items             []preferenceRequestItem `json:"items"`
	Payer             preferencePayer         `json:"payer"`
	ExternalReference string                  `json:"external_reference"`
	BackURLs          preferenceBackURLs      `json:"back_urls"`
	AutoReturn        string                  `json:"auto_return"`
}

type preferenceRequestItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type preferencePayer struct {
	Email string `json:"email"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreatePreference registers a checkout preference and returns the hosted
// checkout redirect.
func (p *MercadoPagoProvider) CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	reqBody := preferenceRequest{
		Items: make([]preferenceRequestItem, len(params.Items)),
		Payer: preferencePayer{Email: params.CustomerEmail},
		BackURLs: preferenceBackURLs{
			Success: p.config.BackURL + "/order-success",
			Failure: p.config.BackURL + "/checkout",
			Pending: p.config.BackURL + "/checkout",
		},
		ExternalReference: params.OrderNumber,
		AutoReturn:        "approved",
	}
	for i, item := range params.Items {
		reqBody.Items[i] = preferenceRequestItem{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIBase+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build preference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read preference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		p.logger.Error("mercadopago: preference creation rejected",
			"status", resp.StatusCode, "order_number", params.OrderNumber)
		return nil, fmt.Errorf("mercadopago returned status %d", resp.StatusCode)
	}

	var prefResp preferenceResponse
	if err := json.Unmarshal(body, &prefResp); err != nil {
		return nil, fmt.Errorf("failed to decode preference response: %w", err)
	}

	p.logger.Info("mercadopago: preference created",
		"preference_id", prefResp.ID, "order_number", params.OrderNumber)

	return &Preference{
		ID:        prefResp.ID,
		InitPoint: prefResp.InitPoint,
	}, nil
}
