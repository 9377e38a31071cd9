package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// customRule is a validation tag with its English message.
type customRule struct {
	tag     string
	fn      validator.Func
	message string
}

var customRules = []customRule{
	{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	// Report the config file keys instead of the Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range customRules {
		if err := registerRule(validate, trans, rule); err != nil {
			return nil, nil, err
		}
	}
	return validate, trans, nil
}

func registerRule(validate *validator.Validate, trans ut.Translator, rule customRule) error {
	if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
	}
	if err := validate.RegisterTranslation(rule.tag, trans, func(ut ut.Translator) error {
		return ut.Add(rule.tag, rule.message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(rule.tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", rule.tag, err)
	}
	return nil
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	// owner read bit
	return info.Mode().Perm()&0o400 != 0
}
