package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/ratelimit"
)

var validate = newValidator()

// newValidator reports fields by their koanf key and adds the "rate" rule,
// which accepts anything ratelimit.ParseRates does.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		key, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if key == "" || key == "-" {
			return f.Name
		}

		return key
	})

	_ = v.RegisterValidation("rate", func(fl validator.FieldLevel) bool {
		_, err := ratelimit.ParseRates(fl.Field().String())
		return err == nil
	})

	return v
}

// ValidationError lists every config problem found, one per line.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks the whole config at once so an operator sees every
// problem in a single failed start.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = describe(fe)
	}

	return &ValidationError{Problems: problems}
}

// ruleMessages phrase a failed rule after the field path. %[1]s is the
// rule parameter.
var ruleMessages = map[string]string{
	"required":         "is required",
	"required_if":      "is required when %[1]s",
	"required_with":    "is required when %[1]s is set",
	"required_without": "is required unless %[1]s is set",
	"min":              "must be at least %[1]s",
	"max":              "must be at most %[1]s",
	"ltefield":         "must not exceed %[1]s",
	"oneof":            "must be one of: %[1]s",
	"url":              "must be a valid URL",
	"rate":             "must be a rate such as 60/minute or 10 per second",
	"ip|cidr":          "must be an IP address or CIDR range",
}

func describe(fe validator.FieldError) string {
	field := formatFieldPath(fe.Namespace())

	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return field + " failed validation: " + fe.Tag()
	}

	param := fe.Param()
	switch fe.Tag() {
	case "required_with", "required_without", "ltefield":
		param = strings.ToLower(param)
	}

	if strings.Contains(msg, "%[1]s") {
		msg = fmt.Sprintf(msg, param)
	}

	return field + " " + msg
}

// formatFieldPath drops the root struct name and lower-cases the rest, so
// "Config.rate_limit.Default" reads "rate_limit.default".
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}

	return strings.ToLower(path)
}
