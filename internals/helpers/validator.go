package helper

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	registerTranslation("dateonly", "{0} must be a date in YYYY-MM-DD format")

	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	registerTranslation("clock", "{0} must be a time in HH:MM format")

	registerTranslation("required", "{0} is required")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct runs the struct tags and returns a *ValidationError keyed by
// JSON field name, or nil.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("payload", err.Error())
	}
	out := &ValidationError{Fields: map[string][]string{}}
	for _, fe := range ves {
		out.Add(fieldKey(fe), fe.Translate(translator))
	}
	return out
}

// fieldKey keeps the nested path for dive errors (items[0].amount) but drops
// the root struct name.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
