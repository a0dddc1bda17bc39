package handlers

import (
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	"wallet-dashboard/internal/errors"
	"wallet-dashboard/internal/filter"

	"github.com/go-playground/validator/v10"
)

// validationFailure picks the error code for a failed request validation and
// lists the offending fields.
func validationFailure(err error) (errors.ErrorCode, []string) {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.ValidationGeneral, []string{err.Error()}
	}

	code := errors.ValidationGeneral
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "quick_period":
			code = errors.FilterUnknownQuickPeriod
		case "required":
			if code == errors.ValidationGeneral {
				code = errors.ValidationRequiredField
			}
		}
		details = append(details, fieldName(fe)+": "+describeTag(fe))
	}
	return code, details
}

func fieldName(fe validator.FieldError) string {
	// Namespace is "TypesRequest.labels[0]"; the struct name is noise to clients.
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must have at most " + fe.Param() + " entries"
		}
		return "must be at most " + fe.Param() + " characters long"
	case "quick_period":
		return "must be one of the quick filter periods"
	default:
		return "failed validation for '" + fe.Tag() + "'"
	}
}

// parseDateBound parses a date bound sent by a client. Nil clears the bound.
func parseDateBound(raw *string) (*time.Time, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	parsed, ok := filter.ParseDate(*raw)
	if !ok {
		return nil, false
	}
	day := filter.NormalizeToDate(parsed)
	return &day, true
}
