package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
)

var Plans = []model.PaymentPlan{
	{
		ID:          "monthly",
		Name:        "Monthly Premium",
		Price:       "$9.99",
		Period:      "per month",
		Description: "Full access to all premium features",
		Features: []string{
			"Unlimited mood tracking",
			"Advanced analytics & insights",
			"Personalized recommendations",
			"Priority crisis support",
			"Export your data",
			"Ad-free experience",
		},
		PriceAmount: 9.99,
		Currency:    "USD",
	},
	{
		ID:          "yearly",
		Name:        "Yearly Premium",
		Price:       "$99.99",
		Period:      "per year",
		Description: "Best value - 2 months free!",
		Features: []string{
			"All monthly features",
			"2 months free (17% savings)",
			"Priority customer support",
			"Early access to new features",
			"Advanced progress tracking",
			"Custom wellness goals",
		},
		PriceAmount: 99.99,
		Currency:    "USD",
	},
}

var Methods = []model.PaymentMethod{
	{ID: "flutterwave", Name: "Flutterwave", Description: "Secure payments across Africa", Supported: []string{"Cards", "Mobile Money", "Bank Transfer", "USSD"}, Countries: []string{"NG", "KE", "GH", "UG", "TZ", "ZA", "RW"}, CardBased: true},
	{ID: "paystack", Name: "Paystack", Description: "Nigeria's leading payment processor", Supported: []string{"Cards", "Bank Transfer", "USSD", "QR Code"}, Countries: []string{"NG", "GH", "ZA"}, CardBased: true},
	{ID: "stripe", Name: "Stripe", Description: "International card payments", Supported: []string{"Credit Cards", "Debit Cards", "Apple Pay", "Google Pay"}, Countries: []string{"US", "CA", "GB", "AU", "EU"}, CardBased: true},
	{ID: "mpesa", Name: "M-Pesa", Description: "Kenya's mobile money service", Supported: []string{"Mobile Money", "Paybill", "Till Number"}, Countries: []string{"KE", "TZ", "UG"}},
	{ID: "airtel-money", Name: "Airtel Money", Description: "Mobile money across Africa", Supported: []string{"Mobile Money", "USSD"}, Countries: []string{"KE", "UG", "TZ", "ZM", "MW", "MG"}},
}

func PlanByID(id string) (model.PaymentPlan, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return model.PaymentPlan{}, false
}

func MethodByID(id string) (model.PaymentMethod, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, m := range Methods {
		if m.ID == id {
			return m, true
		}
	}
	return model.PaymentMethod{}, false
}

// PaymentForm is what the checkout collects. Card fields are only checked
// for card-based methods.
type PaymentForm struct {
	Plan       string `validate:"required"`
	Method     string `validate:"required"`
	Email      string `validate:"required,loose_email"`
	Phone      string `validate:"required,phone"`
	Name       string `validate:"required"`
	CardNumber string
	Expiry     string
	CVV        string
}

var (
	looseEmailRE = regexp.MustCompile(`\S+@\S+\.\S+`)
	phoneRE      = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	cardNumberRE = regexp.MustCompile(`^\d{13,19}$`)
	expiryRE     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRE        = regexp.MustCompile(`^\d{3,4}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loose_email", matchField(looseEmailRE))
	_ = v.RegisterValidation("phone", matchField(phoneRE))
	_ = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		return cardNumberRE.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	_ = v.RegisterValidation("card_expiry", matchField(expiryRE))
	_ = v.RegisterValidation("cvv", matchField(cvvRE))
	v.RegisterStructValidation(cardFieldsLevel, PaymentForm{})
	return v
}

func matchField(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

func cardFieldsLevel(sl validator.StructLevel) {
	form := sl.Current().Interface().(PaymentForm)
	method, ok := MethodByID(form.Method)
	if !ok {
		if form.Method != "" {
			sl.ReportError(form.Method, "Method", "Method", "payment_method", "")
		}
		return
	}
	if _, ok := PlanByID(form.Plan); !ok && form.Plan != "" {
		sl.ReportError(form.Plan, "Plan", "Plan", "payment_plan", "")
	}
	if !method.CardBased {
		return
	}
	checks := []struct{ field, tag, value string }{
		{"CardNumber", "card_number", form.CardNumber},
		{"Expiry", "card_expiry", form.Expiry},
		{"CVV", "cvv", form.CVV},
	}
	for _, c := range checks {
		if err := sl.Validator().Var(c.value, "required,"+c.tag); err != nil {
			tag := c.tag
			if strings.TrimSpace(c.value) == "" {
				tag = "required"
			}
			sl.ReportError(c.value, c.field, c.field, tag, "")
		}
	}
}

var fieldNames = map[string]string{
	"Plan":       "plan",
	"Method":     "method",
	"Email":      "email",
	"Phone":      "phone",
	"Name":       "name",
	"CardNumber": "cardNumber",
	"Expiry":     "expiryDate",
	"CVV":        "cvv",
}

var fieldMessages = map[string]string{
	"email/required":          "Email is required",
	"email/loose_email":       "Please enter a valid email",
	"phone/required":          "Phone number is required",
	"phone/phone":             "Please enter a valid phone number",
	"name/required":           "Name is required",
	"plan/required":           "Plan is required",
	"plan/payment_plan":       "Unknown payment plan",
	"method/required":         "Payment method is required",
	"method/payment_method":   "Unsupported payment method",
	"cardNumber/required":     "Card number is required",
	"cardNumber/card_number":  "Please enter a valid card number",
	"expiryDate/required":     "Expiry date is required",
	"expiryDate/card_expiry":  "Please enter a valid expiry date (MM/YY)",
	"cvv/required":            "CVV is required",
	"cvv/cvv":                 "Please enter a valid CVV",
}

// ValidatePayment returns nil or a *ValidationError keyed by form field.
func ValidatePayment(form PaymentForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payment form: %w", err)
	}
	fields := map[string]string{}
	for _, fe := range verrs {
		name := fieldNames[fe.StructField()]
		if name == "" {
			name = strings.ToLower(fe.StructField())
		}
		if _, seen := fields[name]; seen {
			continue
		}
		msg, ok := fieldMessages[name+"/"+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", name)
		}
		fields[name] = msg
	}
	return &ValidationError{Fields: fields}
}

type PaymentAPI interface {
	InitializePayment(ctx context.Context, provider string, payload any) (api.PaymentInit, error)
	VerifyPayment(ctx context.Context, provider, transactionID string) (model.PaymentVerification, error)
	PaymentHistory(ctx context.Context) ([]model.PaymentRecord, error)
	CancelSubscription(ctx context.Context) (string, error)
}

// PaymentDesk runs checkout. Provider declines come back as a
// PaymentResult with Success false; only transport failures, expired
// sessions and invalid input are errors.
type PaymentDesk struct {
	api PaymentAPI
	// CallbackBase is the origin the providers redirect back to.
	CallbackBase string
	now          func() time.Time

	mu         sync.Mutex
	processing bool
}

func NewPaymentDesk(a PaymentAPI, callbackBase string) *PaymentDesk {
	return &PaymentDesk{api: a, CallbackBase: strings.TrimRight(callbackBase, "/"), now: time.Now}
}

func (d *PaymentDesk) Validate(form PaymentForm) error {
	return ValidatePayment(form)
}

func (d *PaymentDesk) Process(ctx context.Context, form PaymentForm) (model.PaymentResult, error) {
	form.Method = strings.ToLower(strings.TrimSpace(form.Method))
	form.Plan = strings.ToLower(strings.TrimSpace(form.Plan))
	if _, ok := MethodByID(form.Method); !ok && form.Method != "" {
		return model.PaymentResult{Success: false, Message: "Unsupported payment method"}, nil
	}
	if err := ValidatePayment(form); err != nil {
		return model.PaymentResult{}, err
	}
	plan, _ := PlanByID(form.Plan)

	if form.Method == "airtel-money" {
		return model.PaymentResult{Success: false, Message: "Airtel Money integration coming soon"}, nil
	}

	d.mu.Lock()
	if d.processing {
		d.mu.Unlock()
		return model.PaymentResult{}, ErrSaveInProgress
	}
	d.processing = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.processing = false
		d.mu.Unlock()
	}()

	payload, success, failure := d.payload(form, plan)
	init, err := d.api.InitializePayment(ctx, form.Method, payload)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			msg := statusErr.Message
			if msg == "" {
				msg = failure
			}
			return model.PaymentResult{Success: false, Message: msg}, nil
		}
		return model.PaymentResult{}, err
	}
	if !init.Success {
		msg := init.Message
		if msg == "" {
			msg = failure
		}
		return model.PaymentResult{Success: false, Message: msg}, nil
	}
	return model.PaymentResult{
		Success:       true,
		TransactionID: init.TransactionID,
		RedirectURL:   init.RedirectURL,
		Message:       success,
	}, nil
}

// payload builds the provider-specific initialize body together with the
// success and failure messages shown for it.
func (d *PaymentDesk) payload(form PaymentForm, plan model.PaymentPlan) (map[string]any, string, string) {
	const initialized = "Payment initialized successfully"
	const failed = "Payment initialization failed"
	email := strings.TrimSpace(form.Email)
	phone := strings.TrimSpace(form.Phone)
	name := strings.TrimSpace(form.Name)

	switch form.Method {
	case "flutterwave":
		return map[string]any{
			"email": email, "phone": phone, "name": name,
			"amount": plan.PriceAmount, "currency": plan.Currency, "planId": plan.ID,
			"redirectUrl": d.CallbackBase + "/payment/callback",
		}, initialized, failed
	case "paystack":
		return map[string]any{
			"email": email, "phone": phone, "name": name,
			"amount": int64(math.Round(plan.PriceAmount * 100)), "currency": plan.Currency, "planId": plan.ID,
			"callbackUrl": d.CallbackBase + "/payment/callback",
		}, initialized, failed
	case "stripe":
		return map[string]any{
			"email": email, "name": name, "planId": plan.ID,
			"successUrl": d.CallbackBase + "/payment/success",
			"cancelUrl":  d.CallbackBase + "/payment/cancel",
		}, initialized, failed
	default: // mpesa
		return map[string]any{
			"phone": phone, "amount": plan.PriceAmount, "planId": plan.ID,
			"accountReference": fmt.Sprintf("SERENITY-%d", d.now().UnixMilli()),
			"transactionDesc":  "SereniTree Premium - " + plan.Name,
		}, "Payment request sent to your phone. Please complete the transaction.", "M-Pesa payment failed"
	}
}

// Verify maps any non-session failure onto a failed verification.
func (d *PaymentDesk) Verify(ctx context.Context, provider, transactionID string) (model.PaymentVerification, error) {
	v, err := d.api.VerifyPayment(ctx, provider, transactionID)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) || api.IsTransport(err) {
			return model.PaymentVerification{}, err
		}
		return model.PaymentVerification{Success: false, Status: "failed", Message: "Payment verification failed"}, nil
	}
	return v, nil
}

func (d *PaymentDesk) History(ctx context.Context) ([]model.PaymentRecord, error) {
	return d.api.PaymentHistory(ctx)
}

func (d *PaymentDesk) Cancel(ctx context.Context) (model.PaymentResult, error) {
	msg, err := d.api.CancelSubscription(ctx)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.Message == "" {
				statusErr.Message = "Failed to cancel subscription"
			}
			return model.PaymentResult{Success: false, Message: statusErr.Message}, nil
		}
		return model.PaymentResult{}, err
	}
	return model.PaymentResult{Success: true, Message: msg}, nil
}
