package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sdejongh/photonorris/pkg/models"
	"github.com/sdejongh/photonorris/pkg/ratelimit"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their configuration key
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("bandwidth", func(fl validator.FieldLevel) bool {
		_, err := ratelimit.ParseBandwidth(fl.Field().String())
		return err == nil
	})

	v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		_, err := filepath.Match(fl.Field().String(), "")
		return err == nil
	})

	return v
}

func validateStruct(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &models.ValidationError{
		Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
		Message: ruleMessage(fe),
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must list at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "unique":
		return "must not contain duplicates"
	case "bandwidth":
		return "must be a rate such as 512K, 10M or 1G (empty for unlimited)"
	case "glob":
		return "is not a valid glob pattern"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
