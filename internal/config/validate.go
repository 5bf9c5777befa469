package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and cross-field rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return fmt.Errorf("config: %w", err)
	}
	if !cfg.Retrieval.UseWeb && !cfg.Retrieval.UseKB {
		return fmt.Errorf("config: retrieval: at least one of 'use-web' or 'use-kb' must be enabled")
	}
	if cfg.Polling.FetchTimeout > 0 && cfg.Backend.RequestTimeout > 0 && cfg.Polling.FetchTimeout > cfg.Backend.RequestTimeout {
		return fmt.Errorf("config: polling: 'fetch-timeout' (%s) exceeds backend 'request-timeout' (%s)",
			cfg.Polling.FetchTimeout, cfg.Backend.RequestTimeout)
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.backend.base-url"; drop the struct name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("config: '%s' is required", field)
	case "url":
		return fmt.Errorf("config: '%s': %q is not a valid URL", field, fe.Value())
	case "oneof":
		return fmt.Errorf("config: '%s': %q must be one of: %s", field, fe.Value(), fe.Param())
	case "gt", "gte":
		return fmt.Errorf("config: '%s' must be positive", field)
	case "hostname_port":
		return fmt.Errorf("config: '%s': %q must be host:port", field, fe.Value())
	default:
		return fmt.Errorf("config: '%s' failed %q check", field, fe.Tag())
	}
}
