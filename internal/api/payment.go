package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/normalize"
)

// PaymentInit is what a provider's initialize endpoint hands back. Each
// provider names its redirect and reference fields differently.
type PaymentInit struct {
	Success       bool
	RedirectURL   string
	TransactionID string
	Message       string
}

func (c *Client) InitializePayment(ctx context.Context, provider string, payload any) (PaymentInit, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return PaymentInit{}, fmt.Errorf("payment provider is required")
	}
	r, err := c.record(ctx, http.MethodPost, "/payments/"+escape(provider)+"/initialize", nil, payload)
	if err != nil {
		return PaymentInit{}, err
	}
	out := PaymentInit{
		Success:       true,
		RedirectURL:   r.String("paymentUrl", "payment_url", "authorizationUrl", "authorization_url", "checkoutUrl", "checkout_url"),
		TransactionID: r.String("transactionId", "transaction_id", "reference", "sessionId", "session_id", "checkoutRequestId", "checkout_request_id"),
		Message:       r.String("message"),
	}
	if r.Has("success") {
		out.Success = r.Bool("success")
	}
	return out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, provider, transactionID string) (model.PaymentVerification, error) {
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(transactionID) == "" {
		return model.PaymentVerification{}, fmt.Errorf("payment provider and transaction id are required")
	}
	r, err := c.record(ctx, http.MethodGet, "/payments/"+escape(provider)+"/verify/"+escape(transactionID), nil, nil)
	if err != nil {
		return model.PaymentVerification{}, err
	}
	return normalize.PaymentVerification(r), nil
}

func (c *Client) PaymentHistory(ctx context.Context) ([]model.PaymentRecord, error) {
	r, err := c.record(ctx, http.MethodGet, "/payments/history", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalize.PaymentRecords(r), nil
}

func (c *Client) CancelSubscription(ctx context.Context) (string, error) {
	r, err := c.record(ctx, http.MethodPost, "/payments/subscription/cancel", nil, nil)
	if err != nil {
		return "", err
	}
	return r.String("message"), nil
}
