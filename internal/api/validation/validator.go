// Package validation runs submitted forms through normalisation, field
// rules and store-dependent checks, collecting every failure before the
// handler decides how to respond.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// PasswordMinLength is the minimum length accepted by strongpassword.
const PasswordMinLength = 12

// PasswordMaxBytes is the longest credential bcrypt will hash. It is counted
// in bytes, not runes, so validator's max cannot express it.
const PasswordMaxBytes = 72

// Bounds accepted by modelyear.
const (
	MinModelYear = 1900
	MaxModelYear = 2100
)

// Validator wraps go-playground/validator so Echo can call c.Validate(form).
// Field errors are keyed by the form tag of the offending field.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", strongPassword)
	_ = v.RegisterValidation("passwordbytes", passwordBytes)
	_ = v.RegisterValidation("personname", personName)
	_ = v.RegisterValidation("nonnegative", nonNegative)
	_ = v.RegisterValidation("modelyear", modelYear)
	return &Validator{v: v}
}

// Validate satisfies echo.Validator. A failing form returns Errors.
func (ev *Validator) Validate(i any) error {
	if errs := ev.Errors(i); len(errs) > 0 {
		return errs
	}
	return nil
}

// Errors evaluates every field rule on form and returns all failures.
func (ev *Validator) Errors(form any) Errors {
	errs := Errors{}
	err := ev.v.Struct(form)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs.Add("form", err.Error())
		return errs
	}

	custom := map[string]string{}
	if m, ok := form.(interface{ Messages() map[string]string }); ok {
		custom = m.Messages()
	}
	for _, fe := range ve {
		field := fe.Field()
		if msg, ok := custom[field]; ok {
			errs.Add(field, msg)
			continue
		}
		errs.Add(field, fieldError(fe))
	}
	return errs
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "number", "numeric":
		return field + " must be a number"
	case "nonnegative":
		return field + " must be zero or more"
	case "alphanum":
		return field + " may only contain letters and digits"
	case "strongpassword":
		return fmt.Sprintf("%s must be at least %d characters and contain an uppercase letter, a lowercase letter, a number and a special character", field, PasswordMinLength)
	case "passwordbytes":
		return fmt.Sprintf("%s must be at most %d bytes long", field, PasswordMaxBytes)
	case "modelyear":
		return fmt.Sprintf("%s must be a year between %d and %d", field, MinModelYear, MaxModelYear)
	case "personname":
		return field + " contains characters that are not allowed"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < PasswordMinLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func passwordBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= PasswordMaxBytes
}

// personName allows letters, spaces and the punctuation found in names.
func personName(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsLetter(r) || unicode.IsMark(r) || r == ' ' || r == '-' || r == '\'' || r == '.' {
			continue
		}
		return false
	}
	return true
}

func nonNegative(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && f >= 0
}

func modelYear(fl validator.FieldLevel) bool {
	y, err := strconv.Atoi(fl.Field().String())
	return err == nil && y >= MinModelYear && y <= MaxModelYear
}
