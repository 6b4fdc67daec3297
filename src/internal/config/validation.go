package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	liveboxerrors "github.com/maksimkurb/livebox-wan/src/internal/errors"
)

// ValidationError is one rejected setting, addressed by its TOML path.
type ValidationError struct {
	FieldPath string // e.g. "router.url"
	Message   string
}

// ValidationErrors lists every rejected setting of a config.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	lines := make([]string, 0, len(ve))
	for _, err := range ve {
		lines = append(lines, err.FieldPath+": "+err.Message)
	}
	return strings.Join(lines, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("router_url", isRouterURL); err != nil {
		panic(err)
	}

	// Report fields by their "toml" names so paths match the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfig checks the merged configuration. The returned error
// matches errors.ErrValidation and unwraps to ValidationErrors.
func (c *Config) ValidateConfig() error {
	var problems ValidationErrors

	if c.Router == nil {
		problems = ValidationErrors{{FieldPath: "router", Message: "section is missing"}}
	} else if err := validate.Struct(c.Router); err != nil {
		problems = describe(err, "router")
	}

	if len(problems) == 0 {
		return nil
	}
	return liveboxerrors.NewValidationError("invalid configuration", problems)
}

// isRouterURL accepts http(s) URLs with a host.
func isRouterURL(fl validator.FieldLevel) bool {
	parsed, err := url.Parse(strings.TrimSpace(fl.Field().String()))
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func describe(err error, section string) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{FieldPath: section, Message: err.Error()}}
	}

	problems := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, ValidationError{
			FieldPath: section + "." + fe.Field(),
			Message:   message(fe),
		})
	}
	return problems
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "router_url":
		return fmt.Sprintf("%q is not an http:// or https:// URL with a host (e.g. %s)", fe.Value(), "http://192.168.1.1")
	case "max":
		return "is longer than " + fe.Param() + " characters"
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
