// Package validation checks admin form submissions, search input and the
// referential health of the catalog.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/filters"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Error is a user-correctable validation failure. Fields maps a JSON field
// name to what is wrong with it.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// AsError extracts a *Error from err
func AsError(err error) (*Error, bool) {
	var verr *Error
	ok := errors.As(err, &verr)
	return verr, ok
}

// Struct validates s against its `validate` tags
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validation could not run: %w", err)
	}

	out := &Error{Message: "Validation failed", Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		out.Fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func ValidateCompany(c entities.Company) error {
	return Struct(c)
}

func ValidateMedicine(m entities.Medicine) error {
	return Struct(m)
}

func ValidatePlan(p entities.HealthPlan) error {
	return Struct(p)
}

// ValidateFilter checks def and that its key is not used by another
// definition in existing
func ValidateFilter(def entities.FilterDefinition, existing []entities.FilterDefinition) error {
	if err := Struct(def); err != nil {
		return err
	}
	if !def.Kind.Valid() {
		return &Error{Message: "Validation failed", Fields: map[string]string{"type": fmt.Sprintf("must be one of: %v", entities.Kinds)}}
	}
	if err := filters.ValidateDefinition(def); err != nil {
		return &Error{Message: "Validation failed", Fields: map[string]string{"options": err.Error()}}
	}
	for _, other := range existing {
		if other.Key == def.Key && other.ID != def.ID {
			return &Error{Message: "Validation failed", Fields: map[string]string{"key": fmt.Sprintf("is already used by filter %s", other.ID)}}
		}
	}
	return nil
}
