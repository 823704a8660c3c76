package dto

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/piiquante/sauce-service/pkg/util/errorutil"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 15
)

var blacklistedPasswords = []string{"1Aaaaaaa", "2Bbbbbbb", "Passw0rd", "Password1"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordAllowed(fl.Field().String())
	})
	return v
}

// PasswordAllowed reports whether a password satisfies the signup policy:
// 8 to 15 characters with an upper case letter, a lower case letter and a
// digit, no whitespace, and not a known weak value.
func PasswordAllowed(password string) bool {
	n := len([]rune(password))
	if n < passwordMinLength || n > passwordMaxLength {
		return false
	}
	if slices.Contains(blacklistedPasswords, password) {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Validate checks a request payload and returns a validation DomainError
// listing the failing fields. Values are never echoed back.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
