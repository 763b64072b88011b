package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidator makes gin's validator report fields by their json (or
// form) name, so field errors match what the client sent.
func RegisterValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// BindError converts a binding failure into an AppError: 422 with one field
// error per failed rule, or 400 for a body that is not valid JSON.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				FieldName: fieldName(fe),
				Message:   message(fe),
			})
		}
		return apperrors.Validation(fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation(apperrors.FieldError{
			FieldName: typeErr.Field,
			Message:   fmt.Sprintf("Must be a %s", typeErr.Type.Kind()),
		})
	}

	return &apperrors.AppError{
		Code:    apperrors.ErrCodeBindError,
		Message: apperrors.ErrBindError.Message,
		Err:     err,
	}
}

// fieldName drops the struct name, "ProductRequest.category_ids[0]" -> "category_ids[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required field"
	case "email":
		return "Invalid email"
	case "url":
		return "Invalid URL"
	case "min":
		if u := unit(fe); u != "" {
			return fmt.Sprintf("Must have at least %s %s", fe.Param(), u)
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if u := unit(fe); u != "" {
			return fmt.Sprintf("Must have at most %s %s", fe.Param(), u)
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return "Must be positive"
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "lte":
		if fe.Param() == "" {
			return "Date cannot be in the future"
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	}
	return fmt.Sprintf("Failed on %s", fe.Tag())
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return "characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "elements"
	}
	return ""
}
