// Package validation checks decoded request bodies before any service logic
// runs. Failures are apierror validation errors naming the first offending
// field.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-book-library/pkg/apierror"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierror.Internal(fmt.Errorf("validate request: %w", err))
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}

	return apierror.Validation(joinMessages(messages), fieldErrs[0].Field())
}

// AllowedFields rejects any top-level key of a JSON object body that is not
// in allowed. Keys are checked in sorted order so the reported field is stable.
func AllowedFields(body []byte, allowed ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apierror.Validation("Request body must be a JSON object", "")
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		permitted[name] = struct{}{}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rejected []string
	for _, key := range keys {
		if _, ok := permitted[key]; !ok {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) == 0 {
		return nil
	}

	messages := make([]string, 0, len(rejected))
	for _, key := range rejected {
		messages = append(messages, fmt.Sprintf("%q is not allowed", key))
	}

	return apierror.Validation(joinMessages(messages), rejected[0])
}

func message(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "uuid", "uuid4":
		return field + " must be a valid id"
	default:
		return field + " is invalid"
	}
}

// joinMessages renders "a", "a and b", "a, b and c".
func joinMessages(messages []string) string {
	switch len(messages) {
	case 0:
		return ""
	case 1:
		return messages[0]
	default:
		return strings.Join(messages[:len(messages)-1], ", ") + " and " + messages[len(messages)-1]
	}
}
