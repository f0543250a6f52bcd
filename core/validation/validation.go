package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in errors follow the
// json tag, then the mapstructure tag, then the Go name.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(fieldName)
	})
	return instance
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "mapstructure"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct validates s using its validate tags.
func Struct(s any) error {
	return Validator().Struct(s)
}

// FormatErrors converts validation errors into field -> message.
func FormatErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}

	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		case "gte", "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s%s", field, orEqual(e.Tag()), e.Param())
		case "lte", "lt":
			out[field] = fmt.Sprintf("%s must be less than %s%s", field, orEqual(e.Tag()), e.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of [%s]", field, e.Param())
		case "url":
			out[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

func orEqual(tag string) string {
	if strings.HasSuffix(tag, "e") {
		return "or equal to "
	}
	return ""
}

// Summary joins FormatErrors into one line, ordered by the failing fields.
func Summary(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	msgs := FormatErrors(err)
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, msgs[e.Field()])
	}
	return strings.Join(parts, "; ")
}
