package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"rag-tutor/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator checks request DTOs against their validate tags and reports
// failures as domain.ValidationErrors keyed by the JSON/query field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	// mintrim=N: at least N characters once surrounding whitespace is removed.
	_ = v.RegisterValidation("mintrim", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
	})
	return &Validator{validate: v}
}

// Struct validates s. It returns nil when s is valid.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toDomainError(fe))
	}
	return out
}

// ParseIntQuery parses an optional integer query parameter. An empty value
// yields def.
func (v *Validator) ParseIntQuery(field, raw string, def int) (int, domain.ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(field, raw)}
	}
	return n, nil
}

func toDomainError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max":
		return rangeError(fe)
	case "oneof":
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of [%s]", fe.Param()),
			Value:   fe.Value(),
		}
	case "mintrim":
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must contain at least %s characters", fe.Param()),
		}
	case "url":
		return domain.NewInvalidFormatError(field, fe.Value())
	default:
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("failed on '%s' tag", fe.Tag()),
			Value:   fe.Value(),
		}
	}
}

func rangeError(fe validator.FieldError) domain.ValidationError {
	verb := "at least"
	if fe.Tag() == "max" {
		verb = "at most"
	}
	return domain.ValidationError{
		Field:   fe.Field(),
		Message: fmt.Sprintf("must be %s %s", verb, fe.Param()),
		Value:   fe.Value(),
	}
}

// fieldName prefers the json name, then the query name, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
