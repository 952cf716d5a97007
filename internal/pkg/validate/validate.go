package validate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 20 // 1MB

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В деталях ошибок используем имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct проверяет структуру по тегам validate
func Struct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	details := make([]domain.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, domain.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    fe.Tag(),
		})
	}
	return &domain.ValidationError{Message: "validation failed", Details: details}
}

// DecodeJSON читает JSON тело запроса
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
			return &domain.ValidationError{Message: "malformed JSON"}
		case errors.As(err, &unmarshalTypeError):
			return domain.NewValidationError(unmarshalTypeError.Field, "type", "invalid type for field "+unmarshalTypeError.Field)
		case errors.As(err, &maxBytesError):
			return &domain.ValidationError{Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &domain.ValidationError{Message: "request body is empty"}
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			return &domain.ValidationError{Message: err.Error()}
		default:
			return &domain.ValidationError{Message: "invalid request body"}
		}
	}

	if decoder.More() {
		return &domain.ValidationError{Message: "body must contain only a single JSON value"}
	}
	return nil
}

// Decode читает JSON и проверяет теги
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return Struct(dst)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "lte":
		return "Value must be less than or equal to " + fe.Param()
	case "oneof":
		return "Value must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
