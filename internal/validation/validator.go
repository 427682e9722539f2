// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	tagColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ReservedUsername cannot be registered because /api/users/me/ shadows it.
const ReservedUsername = "me"

// FieldError is a single failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every failed constraint of one request.
type RequestValidationError struct {
	errors []FieldError
}

// NewFieldError builds a RequestValidationError for checks done outside of
// struct tags (e.g. an ingredient id that does not exist).
func NewFieldError(field, message string) *RequestValidationError {
	return &RequestValidationError{errors: []FieldError{{Field: field, Tag: "custom", Message: message}}}
}

// Add appends another field error and returns the receiver.
func (ve *RequestValidationError) Add(field, message string) *RequestValidationError {
	ve.errors = append(ve.errors, FieldError{Field: field, Tag: "custom", Message: message})
	return ve
}

func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(ve.errors))
	for _, e := range ve.errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields groups messages by field name, the shape returned to API clients.
func (ve *RequestValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(ve.errors))
	for _, e := range ve.errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// FieldNames returns the sorted distinct field names, handy in tests and logs.
func (ve *RequestValidationError) FieldNames() []string {
	fields := ve.Fields()
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names ("cooking_time") rather than Go names ("CookingTime").
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("username", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return usernamePattern.MatchString(s) && !strings.EqualFold(s, ReservedUsername)
		})
		mustRegister("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		// #RRGGBB or #RGB; hexcolor would also take #RGBA and #RRGGBBAA.
		mustRegister("tagcolor", func(fl validator.FieldLevel) bool {
			return tagColorPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidateStruct returns nil when s passes every constraint.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []FieldError{{Field: "non_field_errors", Tag: "unknown", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// fieldPath drops the top-level struct name: "RecipeRequest.ingredients[0].amount" -> "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// IsValidUsername applies the username rule outside struct validation.
func IsValidUsername(s string) bool {
	return len(s) <= 150 && usernamePattern.MatchString(s) && !strings.EqualFold(s, ReservedUsername)
}

// IsValidSlug applies the slug rule outside struct validation.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"tagcolor": "%s must be a hex color such as #ffd057",
	"username": "%s may contain only letters, digits and @/./+/-/_ and must not be \"me\"",
	"slug":     "%s may contain only latin letters, digits, hyphens and underscores",
	"unique":   "%s must not contain duplicates",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if tmpl, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	kind := fe.Kind()
	switch tag {
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		default:
			return fmt.Sprintf("%s must be at least %s", field, param)
		}
	case "max":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain at most %s item(s)", field, param)
		default:
			return fmt.Sprintf("%s must be at most %s", field, param)
		}
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
