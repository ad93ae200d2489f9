package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// SchemaError describes a request body that does not match its schema.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return e.Message }

// DecodeBody unmarshals a JSON object into dst and validates it. Shape
// problems are reported as *SchemaError with messages such as
// "body must have required property 'title'".
func DecodeBody(body []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &SchemaError{Message: "body must be object"}
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return &SchemaError{Message: describeDecodeError(err)}
	}

	if err := validatorInstance().Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &SchemaError{Message: describeFieldError(fieldErrs[0])}
		}
		return &SchemaError{Message: err.Error()}
	}
	return nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("body/%s must be %s", strings.ReplaceAll(typeErr.Field, ".", "/"), jsonType(typeErr.Type))
	}
	if errors.Is(err, errTaskIDType) {
		return "body/id must be integer"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "body is not valid JSON"
	}
	return "body is invalid"
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("body must have required property '%s'", fe.Field())
	default:
		return fmt.Sprintf("body/%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func jsonType(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "valid"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}
