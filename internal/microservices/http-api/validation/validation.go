// Package validation wires custom rules into gin's validator and turns its errors into field messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"bookhub/pkg/isbn"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// Register installs the json tag name function and the custom rules on gin's validator.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("validation: gin validator engine is not go-playground/validator")
		}
		v.RegisterTagNameFunc(jsonName)
		if err := v.RegisterValidation("book_isbn", validISBN); err != nil {
			panic(err)
		}
	})
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func validISBN(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return isbn.Valid(s)
}

// FieldErrors maps a binding error onto request fields. ok is false when err is not a field-level problem.
func FieldErrors(err error) (fields map[string][]string, ok bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields = make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			key := fieldKey(fe)
			fields[key] = append(fields[key], message(fe))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string][]string{
			typeErr.Field: {fmt.Sprintf("The %s field must be of type %s.", human(typeErr.Field), typeName(typeErr.Type))},
		}, true
	}
	return nil, false
}

// fieldKey drops the top-level struct name from the namespace: CreateBookRequest.category_ids[0] -> category_ids.0
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

func message(fe validator.FieldError) string {
	field := human(fe.Field())
	switch fe.Tag() {
	case "required", "required_without", "required_unless", "required_if":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min", "gte":
		return minMessage(fe, field)
	case "max", "lte":
		return maxMessage(fe, field)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", field)
	case "book_isbn":
		return fmt.Sprintf("The %s must be a valid ISBN-10 or ISBN-13.", field)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date (YYYY-MM-DD).", field)
	case "len":
		return fmt.Sprintf("The %s must be %s characters.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func minMessage(fe validator.FieldError, field string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case reflect.Slice, reflect.Map, reflect.Array:
		return fmt.Sprintf("The %s must have at least %s items.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	}
}

func maxMessage(fe validator.FieldError, field string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case reflect.Slice, reflect.Map, reflect.Array:
		return fmt.Sprintf("The %s may not have more than %s items.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	}
}

func human(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}
