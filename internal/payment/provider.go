// Package payment talks to the external payment provider over its HTTP API.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/modules/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider is an HTTP client for the provider's charge/refund endpoints.
// Requests are signed with an HMAC-SHA256 of the body using the shared secret.
type Provider struct {
	baseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewProvider() *Provider {
	return &Provider{
		baseURL:   envOrDefault("PAYMENT_PROVIDER_BASE_URL", "https://api.payments.example.com/v1"),
		apiKey:    os.Getenv("PAYMENT_PROVIDER_API_KEY"),
		apiSecret: os.Getenv("PAYMENT_PROVIDER_API_SECRET"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

type chargeRequest struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

type refundRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}

func (p *Provider) Charge(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, currency string, method domain.PaymentMethod) (*booking.ChargeResult, error) {
	if p.apiKey == "" || p.apiSecret == "" {
		return nil, fmt.Errorf("payment provider credentials are not configured")
	}

	req := chargeRequest{
		Reference: bookingID.String(),
		Amount:    amount.StringFixed(2),
		Currency:  currency,
		Method:    string(method),
	}

	var resp chargeResponse
	if err := p.post(ctx, "/charges", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "succeeded" {
		return nil, fmt.Errorf("charge declined: %s", resp.Message)
	}
	return &booking.ChargeResult{TransactionID: resp.TransactionID, Status: resp.Status}, nil
}

func (p *Provider) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	if p.apiKey == "" || p.apiSecret == "" {
		return fmt.Errorf("payment provider credentials are not configured")
	}

	req := refundRequest{
		TransactionID: transactionID,
		Amount:        amount.StringFixed(2),
	}

	var resp chargeResponse
	if err := p.post(ctx, "/refunds", req, &resp); err != nil {
		return err
	}
	if resp.Status != "succeeded" && resp.Status != "pending" {
		return fmt.Errorf("refund rejected: %s", resp.Message)
	}
	return nil
}

func (p *Provider) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", p.apiKey)
	httpReq.Header.Set("X-Signature", p.sign(body))

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return err
	}
	if httpResp.StatusCode >= 500 {
		return fmt.Errorf("payment provider unavailable: status %d", httpResp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payment provider returned malformed response: %w", err)
	}
	if httpResp.StatusCode >= 400 {
		return fmt.Errorf("payment provider error: status %d", httpResp.StatusCode)
	}
	return nil
}

func (p *Provider) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(p.apiSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
