package yookassa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"sessionpass/internal/pkg/config"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/commands"
)

// Client talks to the YooKassa v3 REST API. Only payment creation is needed
// here; status updates arrive through the webhook.
type Client struct {
	shopID    string
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(cfg config.YooKassaConfig) *Client {
	return &Client{
		shopID:    cfg.ShopID,
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type createPaymentRequest struct {
	Amount            amount            `json:"amount"`
	PaymentMethodData paymentMethodData `json:"payment_method_data"`
	Capture           bool              `json:"capture"`
	Confirmation      confirmation      `json:"confirmation"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type paymentMethodData struct {
	Type string `json:"type"`
}

type confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type paymentResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Paid         bool          `json:"paid"`
	Confirmation *confirmation `json:"confirmation"`
}

func (c *Client) CreatePayment(ctx context.Context, params commands.CreateGatewayPaymentParams) (*commands.GatewayPayment, error) {
	payload := createPaymentRequest{
		Amount:            amount{Value: params.AmountValue, Currency: params.Currency},
		PaymentMethodData: paymentMethodData{Type: "bank_card"},
		Capture:           true,
		Confirmation:      confirmation{Type: "redirect", ReturnURL: params.ReturnURL},
		Description:       params.Description,
		Metadata:          params.Metadata,
	}

	var resp paymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments", params.IdempotenceKey, payload, &resp); err != nil {
		return nil, err
	}

	result := &commands.GatewayPayment{
		ID:     resp.ID,
		Status: resp.Status,
	}
	if resp.Confirmation != nil && resp.Confirmation.ConfirmationURL != "" {
		url := resp.Confirmation.ConfirmationURL
		result.ConfirmationURL = &url
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path, idemKey string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return errs.Wrap(err, "failed to encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("Idempotence-Key", idemKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errs.New(fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.Wrap(err, "failed to decode gateway response")
		}
	}
	return nil
}

func (c *Client) authHeader() string {
	creds := c.shopID + ":" + c.secretKey
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}
