// Package inputval validates form input structs via struct tags.
//
// Handlers declare a small input struct per form with `validate` rules and a
// `label` tag for user-facing messages, then call Validate:
//
//	type createProjectInput struct {
//	    Title string `validate:"required,max=300" label:"Title"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    reRender(result.First())
//	    return
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names from the `label` tag so messages read naturally.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Result holds user-facing validation messages, in field declaration order.
type Result struct {
	Errors []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when validation passed.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// Validate checks the struct's `validate` tags and returns user-facing
// messages built from the `label` tags.
func Validate(input interface{}) Result {
	err := validate.Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []string{"Invalid input."}}
	}

	var result Result
	for _, fe := range verrs {
		result.Errors = append(result.Errors, message(fe))
	}
	return result
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		return fmt.Sprintf("%s must be a number.", name)
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}
