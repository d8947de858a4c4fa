package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/arisanku/arisan-admin/internal/phone"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Error messages name fields by their label tag, falling back to json.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("phone_id", func(fl validator.FieldLevel) bool {
			_, err := phone.Normalize(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError lists every failed rule of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// First returns the first message, which the UI shows in its notice.
func (e *ValidationError) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// Required returns a ValidationError when value is blank.
func Required(label, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return &ValidationError{Fields: []FieldError{{Field: label, Tag: "required", Message: label + " tidak boleh kosong"}}}
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " tidak boleh kosong"
	case "gt":
		return fmt.Sprintf("%s harus lebih dari %s", name, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s minimal %s", name, fe.Param())
	case "datetime":
		return name + " harus berformat YYYY-MM-DD"
	case "phone_id":
		return name + " bukan nomor ponsel yang valid"
	case "url", "http_url":
		return name + " harus berupa URL"
	case "dive":
		return name + " tidak valid"
	}
	return fmt.Sprintf("%s tidak valid (%s)", name, fe.Tag())
}
