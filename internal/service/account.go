package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type RegisterForm struct {
	Email     string `validate:"required,loose_email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"omitempty,phone"`
}

type PasswordChange struct {
	Current string `validate:"required"`
	New     string `validate:"required,min=8"`
	Confirm string `validate:"eqfield=New"`
}

var accountMessages = map[string]string{
	"Email/required":     "Email is required",
	"Email/loose_email":  "Please enter a valid email",
	"Password/required":  "Password is required",
	"Password/min":       "Password must be at least 8 characters long",
	"FirstName/required": "First name is required",
	"LastName/required":  "Last name is required",
	"Phone/phone":        "Please enter a valid phone number",
	"Current/required":   "Current password is required",
	"New/required":       "New password is required",
	"New/min":            "Password must be at least 8 characters long",
	"Confirm/eqfield":    "New passwords don't match",
}

var accountFields = map[string]string{
	"FirstName": "firstName",
	"LastName":  "lastName",
	"Current":   "currentPassword",
	"New":       "newPassword",
	"Confirm":   "confirmPassword",
}

func ValidateRegistration(form RegisterForm) error {
	return accountErrors(validate.Struct(form))
}

func ValidatePasswordChange(form PasswordChange) error {
	return accountErrors(validate.Struct(form))
}

func accountErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	fields := map[string]string{}
	for _, fe := range verrs {
		name, ok := accountFields[fe.StructField()]
		if !ok {
			name = lowerFirst(fe.StructField())
		}
		if _, seen := fields[name]; seen {
			continue
		}
		msg, ok := accountMessages[fe.StructField()+"/"+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", name)
		}
		fields[name] = msg
	}
	return &ValidationError{Fields: fields}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
