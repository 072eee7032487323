package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse. Field names are reported by their JSON name.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DecodeJSON decodes the request body into the given struct.
// An empty body leaves v untouched. Malformed JSON yields a 400 and an
// oversized body a 413, both as *domain.StatusError.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return domain.NewStatusError(http.StatusRequestEntityTooLarge, "request entity too large", "").WithCause(err)
	}
	return domain.NewStatusError(http.StatusBadRequest, "Invalid JSON body", err.Error()).WithCause(err)
}

// ValidateRequest validates the given struct using the validator package.
// Field failures are returned as a *domain.ValidationError with []FieldError details.
func ValidateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fe.Field(), Message: tagMessage(fe)})
	}
	return domain.NewValidationError(details, err)
}

// tagMessage maps validation tags to user-friendly error messages
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "url", "http_url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt", "gte":
		return "must be a positive integer"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
