package service_test

import (
	"errors"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestValidateRegistration(t *testing.T) {
	t.Parallel()
	ok := service.RegisterForm{Email: "ada@example.com", Password: "correct horse", FirstName: "Ada", LastName: "Lovelace"}
	if err := service.ValidateRegistration(ok); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}

	err := service.ValidateRegistration(service.RegisterForm{Email: "ada", Password: "short", Phone: "call me"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"email":     "Please enter a valid email",
		"password":  "Password must be at least 8 characters long",
		"firstName": "First name is required",
		"lastName":  "Last name is required",
		"phone":     "Please enter a valid phone number",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, verr.Fields[field])
		}
	}
}

func TestValidatePasswordChange(t *testing.T) {
	t.Parallel()
	err := service.ValidatePasswordChange(service.PasswordChange{Current: "old-secret", New: "new-secret", Confirm: "other"})
	var verr *service.ValidationError
	if !errors.As(err, &verr) || verr.Fields["confirmPassword"] != "New passwords don't match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if err := service.ValidatePasswordChange(service.PasswordChange{Current: "old-secret", New: "new-secret", Confirm: "new-secret"}); err != nil {
		t.Fatalf("expected valid change, got %v", err)
	}
}
