package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = func() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Check returns data-quality warnings for the record. Warnings never block
// reconciliation: a series without a sequence number is tolerated, only reported.
func (r *LibraryRecord) Check() []string {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{err.Error()}
	}

	warnings := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		warnings = append(warnings, friendlyMessage(e))
	}
	sort.Strings(warnings)
	return warnings
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", e.Field(), jsonName(e.Param()))
	default:
		return e.Field() + " is invalid"
	}
}

func jsonName(field string) string {
	f, ok := reflect.TypeOf(LibraryRecord{}).FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}
