package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func validCardForm(method string) service.PaymentForm {
	return service.PaymentForm{
		Plan:       "monthly",
		Method:     method,
		Email:      "ada@example.com",
		Phone:      "+254 700-000 000",
		Name:       "Ada Lovelace",
		CardNumber: "4242 4242 4242 4242",
		Expiry:     "12/29",
		CVV:        "123",
	}
}

func TestValidatePaymentReportsFieldMessages(t *testing.T) {
	t.Parallel()
	err := service.ValidatePayment(service.PaymentForm{Plan: "monthly", Method: "stripe", Email: "nope", Phone: "abc", CardNumber: "12", Expiry: "13/30"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"email":      "Please enter a valid email",
		"phone":      "Please enter a valid phone number",
		"name":       "Name is required",
		"cardNumber": "Please enter a valid card number",
		"expiryDate": "Please enter a valid expiry date (MM/YY)",
		"cvv":        "CVV is required",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q (all: %v)", field, msg, verr.Fields[field], verr.Fields)
		}
	}
}

func TestValidatePaymentSkipsCardFieldsForMobileMoney(t *testing.T) {
	t.Parallel()
	form := service.PaymentForm{Plan: "yearly", Method: "mpesa", Email: "a@b.co", Phone: "0700000000", Name: "Ada"}
	if err := service.ValidatePayment(form); err != nil {
		t.Fatalf("expected mpesa form without card to validate, got %v", err)
	}
	if err := service.ValidatePayment(validCardForm("paystack")); err != nil {
		t.Fatalf("expected card form to validate, got %v", err)
	}
}

func TestProcessPaymentProviders(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	desk := service.NewPaymentDesk(client, "https://app.example/")
	ctx := context.Background()

	res, err := desk.Process(ctx, validCardForm("flutterwave"))
	if err != nil {
		t.Fatalf("flutterwave: %v", err)
	}
	if !res.Success || res.RedirectURL != "https://pay.example/flw" || res.Message != "Payment initialized successfully" {
		t.Fatalf("unexpected flutterwave result %+v", res)
	}

	mpesa := validCardForm("mpesa")
	res, err = desk.Process(ctx, mpesa)
	if err != nil {
		t.Fatalf("mpesa: %v", err)
	}
	if !res.Success || res.TransactionID != "ws_CO_1" || !strings.Contains(res.Message, "sent to your phone") {
		t.Fatalf("unexpected mpesa result %+v", res)
	}

	res, err = desk.Process(ctx, validCardForm("airtel-money"))
	if err != nil || res.Success || res.Message != "Airtel Money integration coming soon" {
		t.Fatalf("unexpected airtel result %+v (%v)", res, err)
	}
	res, err = desk.Process(ctx, validCardForm("paypal"))
	if err != nil || res.Success || res.Message != "Unsupported payment method" {
		t.Fatalf("unexpected unsupported result %+v (%v)", res, err)
	}
	if n := srv.Hits("POST /api/payments/airtel-money/initialize"); n != 0 {
		t.Fatalf("airtel must not hit the network, got %d", n)
	}
}

func TestProcessPaymentDeclinedIsResultTransportIsError(t *testing.T) {
	t.Parallel()
	srv, client := newTestClient(t)
	desk := service.NewPaymentDesk(client, "https://app.example")
	ctx := context.Background()

	srv.Decline("stripe", "Card declined")
	res, err := desk.Process(ctx, validCardForm("stripe"))
	if err != nil {
		t.Fatalf("declined payment must not be an error, got %v", err)
	}
	if res.Success || res.Message != "Card declined" {
		t.Fatalf("unexpected declined result %+v", res)
	}

	srv.Close()
	if _, err := desk.Process(ctx, validCardForm("paystack")); err == nil || !api.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

type recordingPayments struct {
	provider string
	payload  map[string]any
}

func (r *recordingPayments) InitializePayment(_ context.Context, provider string, payload any) (api.PaymentInit, error) {
	r.provider = provider
	r.payload, _ = payload.(map[string]any)
	return api.PaymentInit{Success: true}, nil
}

func (r *recordingPayments) VerifyPayment(context.Context, string, string) (model.PaymentVerification, error) {
	return model.PaymentVerification{}, &api.StatusError{StatusCode: 500}
}

func (r *recordingPayments) PaymentHistory(context.Context) ([]model.PaymentRecord, error) {
	return []model.PaymentRecord{}, nil
}

func (r *recordingPayments) CancelSubscription(context.Context) (string, error) {
	return "", &api.StatusError{StatusCode: 400}
}

func TestProcessPaymentBuildsProviderPayload(t *testing.T) {
	t.Parallel()
	rec := &recordingPayments{}
	desk := service.NewPaymentDesk(rec, "https://app.example")
	ctx := context.Background()

	if _, err := desk.Process(ctx, validCardForm("paystack")); err != nil {
		t.Fatalf("paystack: %v", err)
	}
	if rec.payload["amount"] != int64(999) || rec.payload["callbackUrl"] != "https://app.example/payment/callback" {
		t.Fatalf("unexpected paystack payload %v", rec.payload)
	}

	if _, err := desk.Process(ctx, validCardForm("stripe")); err != nil {
		t.Fatalf("stripe: %v", err)
	}
	if rec.payload["successUrl"] != "https://app.example/payment/success" || rec.payload["cancelUrl"] != "https://app.example/payment/cancel" {
		t.Fatalf("unexpected stripe payload %v", rec.payload)
	}
	if _, ok := rec.payload["phone"]; ok {
		t.Fatalf("stripe payload must not carry a phone number")
	}

	form := validCardForm("mpesa")
	form.Plan = "yearly"
	if _, err := desk.Process(ctx, form); err != nil {
		t.Fatalf("mpesa: %v", err)
	}
	ref, _ := rec.payload["accountReference"].(string)
	if !strings.HasPrefix(ref, "SERENITY-") || rec.payload["transactionDesc"] != "SereniTree Premium - Yearly Premium" {
		t.Fatalf("unexpected mpesa payload %v", rec.payload)
	}

	v, err := desk.Verify(ctx, "stripe", "cs_1")
	if err != nil || v.Success || v.Status != "failed" || v.Message != "Payment verification failed" {
		t.Fatalf("unexpected verification %+v (%v)", v, err)
	}
	cancel, err := desk.Cancel(ctx)
	if err != nil || cancel.Success || cancel.Message != "Failed to cancel subscription" {
		t.Fatalf("unexpected cancel %+v (%v)", cancel, err)
	}
}

func TestPlanAndMethodCatalog(t *testing.T) {
	t.Parallel()
	plan, ok := service.PlanByID(" Yearly ")
	if !ok || plan.Price != "$99.99" {
		t.Fatalf("unexpected yearly plan %+v", plan)
	}
	if _, ok := service.MethodByID("mpesa"); !ok {
		t.Fatalf("expected mpesa method")
	}
	if _, ok := service.PlanByID("weekly"); ok {
		t.Fatalf("expected unknown plan")
	}
}
