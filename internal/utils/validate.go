package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON reads a single JSON object into dst, rejecting unknown fields,
// then runs the struct's validate tags. Bodies not sent as application/json
// are refused so a cross-site form can never reach a write handler.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if !IsJSON(r) {
		return apperr.New(apperr.CodeUnsupportedMedia, "Content-Type must be application/json")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeInvalid, "Request body is empty")
		}
		return apperr.Wrap(err, apperr.CodeInvalid, "Invalid input")
	}
	if dec.More() {
		return apperr.New(apperr.CodeInvalid, "Request body must contain a single JSON object")
	}
	return Validate(dst)
}

// IsJSON reports whether the request declares an application/json body.
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// Validate runs validate tags on v and turns the first failure into a
// CodeInvalid error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.New(apperr.CodeInvalid, describe(verrs[0]))
	}
	return apperr.Wrap(err, apperr.CodeInvalid, "Invalid input")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
