package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/csemotors/dealership/internal/core/domain"
)

const minPasswordLength = 12

// fieldMessager is implemented by forms that word their own errors. Keys
// are form field names.
type fieldMessager interface {
	FieldMessages() map[string]string
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(form).
// Failures come back as domain.FieldErrors keyed by the form field name.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(fmt.Sprintf("validator: register strongpassword: %v", err))
	}
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(fmt.Sprintf("validator: register maxbytes: %v", err))
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var custom map[string]string
	if fm, ok := i.(fieldMessager); ok {
		custom = fm.FieldMessages()
	}

	out := domain.FieldErrors{}
	for _, fe := range ve {
		if msg, ok := custom[fe.Field()]; ok {
			out.Add(fe.Field(), msg)
			continue
		}
		out.Add(fe.Field(), fieldError(fe))
	}
	return out
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "A valid email is required."
	case "strongpassword":
		return fmt.Sprintf("Password must be at least %d characters and include a lowercase letter, an uppercase letter, a number and a symbol.", minPasswordLength)
	case "alphanum":
		return field + " may only contain letters and numbers"
	case "gt", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s is too long", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// strongPassword requires minPasswordLength characters with at least one
// lowercase letter, uppercase letter, digit and symbol.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < minPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// maxBytes bounds the byte length of a string field; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("validator: maxbytes param %q: %v", fl.Param(), err))
	}
	return len(fl.Field().String()) <= limit
}
