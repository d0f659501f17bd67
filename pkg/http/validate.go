package http

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

// newValidator reports fields by their JSON name and knows the "cusp" tag:
// a zodiac longitude already normalised into [0, 360).
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("cusp", func(fl validator.FieldLevel) bool {
		lon := fl.Field().Float()
		return lon >= 0 && lon < 360
	})
	return v
}

// ReadAndValidateRequest binds the request body, applies defaults and
// validates it. A non-nil result is the list of ValidationErrors to return.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return toValidationErrors(err)
	}
	return ValidateStruct(c.Request().Context(), req)
}

// ValidateStruct applies defaults and validation tags to an already decoded
// value, for payloads that do not arrive through an echo request.
func ValidateStruct(ctx context.Context, req interface{}) interface{} {
	if err := defaults.Set(req); err != nil {
		return toValidationErrors(err)
	}
	if err := validate.StructCtx(ctx, req); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func toValidationErrors(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Code:    "ERR_" + strings.ToUpper(fe.Tag()),
				Field:   fe.Field(),
				Message: describe(fe),
				Params:  paramsOf(fe),
			})
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_MALFORMED", Message: msg}}
}

// constraint phrases keyed by validator tag; %s is the tag parameter.
var phrases = map[string]string{
	"required": "is required",
	"len":      "must have exactly %s items",
	"gt":       "must be greater than %s",
	"gte":      "must be at least %s",
	"lt":       "must be less than %s",
	"lte":      "must be at most %s",
	"oneof":    "must be one of: %s",
	"cusp":     "must be a longitude in [0, 360)",
}

func describe(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	switch tag {
	case "min", "max":
		bound := map[string]string{"min": "at least", "max": "at most"}[tag]
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s must have %s %s items", fe.Field(), bound, param)
		}
		return fmt.Sprintf("%s must be %s %s", fe.Field(), bound, param)
	case "oneof":
		param = strings.ReplaceAll(param, " ", ", ")
	}

	phrase, ok := phrases[tag]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), tag)
	}
	if strings.Contains(phrase, "%s") {
		phrase = fmt.Sprintf(phrase, param)
	}
	return fe.Field() + " " + phrase
}

func paramsOf(fe validator.FieldError) map[string]interface{} {
	switch fe.Tag() {
	case "len":
		return map[string]interface{}{"len": fe.Param()}
	case "min", "gte":
		return map[string]interface{}{"min": fe.Param()}
	case "max", "lte":
		return map[string]interface{}{"max": fe.Param()}
	case "gt", "lt":
		return map[string]interface{}{"value": fe.Param()}
	case "oneof":
		return map[string]interface{}{"options": strings.Fields(fe.Param())}
	}
	return nil
}
