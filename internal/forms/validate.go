package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"investportal/pkg/types"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

var (
	decoder  = form.NewDecoder()
	validate = newValidator()
)

const dateLayout = "2006-01-02"

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Summary is the banner shown above a form that failed validation.
func (e FieldErrors) Summary() string {
	if len(e) == 0 {
		return ""
	}
	return "Please fix the highlighted fields."
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads form values into dst. Values are trimmed first so a field
// holding only whitespace counts as empty.
func Decode(dst any, values map[string][]string) error {
	trimmed := make(map[string][]string, len(values))
	for k, vs := range values {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = strings.TrimSpace(v)
		}
		trimmed[k] = out
	}

	if err := decoder.Decode(dst, trimmed); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// Validate checks a decoded form struct and returns one message per failing
// field. labels supplies the human name used in "is required" messages.
func Validate(input any, labels map[string]string) FieldErrors {
	errs := FieldErrors{}

	err := validate.Struct(input)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs[fe.Field()] = messageFor(fe, labels)
		}
	}

	if sp, ok := input.(*types.SponsorshipForm); ok {
		validateSponsorshipDates(sp, errs)
	}

	return errs
}

func validateSponsorshipDates(f *types.SponsorshipForm, errs FieldErrors) {
	if f.EffectiveDate == "" || f.ExpiryDate == "" {
		return
	}
	if _, bad := errs["effectiveDate"]; bad {
		return
	}
	if _, bad := errs["expiryDate"]; bad {
		return
	}

	effective, _ := time.Parse(dateLayout, f.EffectiveDate)
	expiry, _ := time.Parse(dateLayout, f.ExpiryDate)
	if expiry.Before(effective) {
		errs["expiryDate"] = "Expiry date cannot be before the effective date."
	}
}

func messageFor(fe validator.FieldError, labels map[string]string) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)."
	case "numeric":
		return label + " must be a number."
	}
	return label + " is invalid."
}

func labelsOf(specs []FieldSpec) map[string]string {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		out[s.Name] = s.Label
	}
	return out
}
