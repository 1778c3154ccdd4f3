// Package validator holds the submission predicates and a go-playground
// validator configured with the matching struct tags and English messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/class-creator-api/internal/models"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z]+-[a-zA-Z0-9-]+`)

var clockLayouts = []string{"15:04", "15:04:05"}

// ValidateSlug reports whether code starts with letters, a hyphen, then at
// least one letter, digit or hyphen.
func ValidateSlug(code string) bool {
	return slugPattern.MatchString(code)
}

// ValidateDays reports whether at least one meeting day was chosen.
func ValidateDays(days []string) bool {
	return len(days) > 0
}

// ValidateDates reports whether start is on or before end.
func ValidateDates(start, end time.Time) bool {
	return !start.After(end)
}

// ValidateTime reports whether raw is a wall-clock time.
func ValidateTime(raw string) bool {
	_, err := ParseClock(raw)
	return err == nil
}

// ParseClock parses HH:MM or HH:MM:SS.
func ParseClock(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", raw)
}

// Validator couples the struct validator with its translator.
type Validator struct {
	*govalidator.Validate
	trans ut.Translator
}

type customTag struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customTags = []customTag{
	{"slug", func(fl govalidator.FieldLevel) bool { return ValidateSlug(fl.Field().String()) }, "{0} must be a course code like vtp-math-grade-6"},
	{"weekday", func(fl govalidator.FieldLevel) bool {
		_, ok := models.ParseWeekday(fl.Field().String())
		return ok
	}, "{0} must be a day of the week"},
	{"clock", func(fl govalidator.FieldLevel) bool { return ValidateTime(fl.Field().String()) }, "{0} must be a time formatted HH:MM"},
	{"isodate", func(fl govalidator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	}, "{0} must be a date formatted YYYY-MM-DD"},
	{"classtype", func(fl govalidator.FieldLevel) bool {
		_, ok := models.ParseClassType(fl.Field().String())
		return ok
	}, "{0} must be Livestream or Group Class"},
}

// New returns a validator using JSON field names and English messages.
func New() *Validator {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, ct := range customTags {
		_ = v.RegisterValidation(ct.tag, ct.fn)
		message := ct.message
		tag := ct.tag
		_ = v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
			return t.Add(tag, message, true)
		}, func(t ut.Translator, fe govalidator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
	}

	return &Validator{Validate: v, trans: trans}
}

// Translate maps each failed field to a readable message. Errors that are
// not validation errors come back under "detail".
func (v *Validator) Translate(err error) map[string]string {
	fields := make(map[string]string)
	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(v.trans)
		}
		return fields
	}
	fields["detail"] = err.Error()
	return fields
}

// Check validates s and converts failures into a validation error whose
// message lists every problem.
func (v *Validator) Check(s interface{}, message string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return v.AsAppError(err, message)
}

// AsAppError wraps err as a validation error carrying the translated messages.
func (v *Validator) AsAppError(err error, message string) *appErrors.Error {
	translated := v.Translate(err)
	keys := make([]string, 0, len(translated))
	for k := range translated {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, translated[k])
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("%s: %s", message, strings.Join(parts, "; ")))
}
