package auth

import (
	"fmt"
	"regexp"
	"strings"

	"taskdeck/internal/service"
)

// FieldError is a client-side validation failure for a single form field.
// It blocks submission; nothing invalid ever reaches the network layer.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// ValidationErrors collects per-field failures for one submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for a field, or "" if the field passed.
func (v ValidationErrors) Field(name string) string {
	for _, fe := range v {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// emailRe accepts the simple local@domain.tld shape.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// mobileRe accepts Indian mobile numbers: exactly 10 digits, first in 6-9.
var mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)

func validateEmail(errs ValidationErrors, email string) ValidationErrors {
	if strings.TrimSpace(email) == "" {
		return append(errs, FieldError{"email", "Email is required"})
	}
	if !emailRe.MatchString(email) {
		return append(errs, FieldError{"email", "Enter a valid email address"})
	}
	return errs
}

func validatePassword(errs ValidationErrors, password string) ValidationErrors {
	if password == "" {
		return append(errs, FieldError{"password", "Password is required"})
	}
	if len(password) < 6 {
		return append(errs, FieldError{"password", "Password must be at least 6 characters"})
	}
	return errs
}

// ValidateLogin checks a password-mode submission.
func ValidateLogin(email, password string) error {
	var errs ValidationErrors
	errs = validateEmail(errs, email)
	errs = validatePassword(errs, password)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRegistration checks a registration submission.
func ValidateRegistration(reg service.Registration) error {
	var errs ValidationErrors
	if strings.TrimSpace(reg.Name) == "" {
		errs = append(errs, FieldError{"name", "Name is required"})
	}
	errs = validateEmail(errs, reg.Email)
	if strings.TrimSpace(reg.City) == "" {
		errs = append(errs, FieldError{"city", "City is required"})
	}
	if reg.Mobile != "" && !mobileRe.MatchString(reg.Mobile) {
		errs = append(errs, FieldError{"mobile", "Enter a valid 10-digit mobile number"})
	}
	errs = validatePassword(errs, reg.Password)
	if reg.ConfirmPassword != reg.Password {
		errs = append(errs, FieldError{"confirmPassword", "Passwords do not match"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateOTPRequest checks the email an OTP is requested for.
func ValidateOTPRequest(email string) error {
	var errs ValidationErrors
	errs = validateEmail(errs, email)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// JoinOTPDigits validates and concatenates the six single-character input
// slots of an OTP submission, in order.
func JoinOTPDigits(slots []string) (string, error) {
	if len(slots) != OTPLength {
		return "", ValidationErrors{{"otp", fmt.Sprintf("Enter the %d-digit code", OTPLength)}}
	}
	var b strings.Builder
	for _, s := range slots {
		if len(s) != 1 || s[0] < '0' || s[0] > '9' {
			return "", ValidationErrors{{"otp", fmt.Sprintf("Enter the %d-digit code", OTPLength)}}
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// SplitOTP breaks a single entered code into input slots. Used by the CLI,
// which collects the code on one line rather than in six boxes.
func SplitOTP(code string) []string {
	code = strings.TrimSpace(code)
	slots := make([]string, 0, len(code))
	for _, r := range code {
		slots = append(slots, string(r))
	}
	return slots
}
