// Package filters provides the lookup and validation rules for admin-defined
// filter definitions.
package filters

import (
	"errors"
	"fmt"

	"github.com/giygas/healthplans-api/entities"
)

// Registry indexes filter definitions by key. Key uniqueness is the caller's
// job: on duplicates the first definition wins and DuplicateKeys reports the rest.
type Registry struct {
	defs       []entities.FilterDefinition
	byKey      map[string]int
	duplicates []string
}

// NewRegistry builds a registry over defs. defs is not copied.
func NewRegistry(defs []entities.FilterDefinition) *Registry {
	r := &Registry{
		defs:  defs,
		byKey: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		if _, exists := r.byKey[def.Key]; exists {
			r.duplicates = append(r.duplicates, def.Key)
			continue
		}
		r.byKey[def.Key] = i
	}
	return r
}

// Lookup returns the definition registered for key
func (r *Registry) Lookup(key string) (entities.FilterDefinition, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return entities.FilterDefinition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the registered definitions in insertion order
func (r *Registry) Definitions() []entities.FilterDefinition {
	return r.defs
}

// DuplicateKeys lists keys declared more than once, one entry per extra declaration
func (r *Registry) DuplicateKeys() []string {
	return r.duplicates
}

var (
	ErrUnknownKind   = errors.New("unknown filter type")
	ErrMissingOption = errors.New("filter requires at least one option")
	ErrInvalidBounds = errors.New("range min is greater than max")
)

// ValidateDefinition checks the kind-dependent configuration of def.
// Required fields are checked by the validation package.
func ValidateDefinition(def entities.FilterDefinition) error {
	switch def.Kind {
	case entities.KindDropdown, entities.KindMultiselect:
		if len(def.Options) == 0 {
			return fmt.Errorf("%s filter %q: %w", def.Kind, def.Key, ErrMissingOption)
		}
		seen := make(map[string]struct{}, len(def.Options))
		for _, opt := range def.Options {
			if opt.Value == "" {
				return fmt.Errorf("%s filter %q: option %q has an empty value", def.Kind, def.Key, opt.Label)
			}
			if _, dup := seen[opt.Value]; dup {
				return fmt.Errorf("%s filter %q: duplicate option value %q", def.Kind, def.Key, opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
	case entities.KindRange:
		if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
			return fmt.Errorf("range filter %q: %w (%v > %v)", def.Key, ErrInvalidBounds, *def.Min, *def.Max)
		}
	case entities.KindBoolean, entities.KindText:
	default:
		return fmt.Errorf("filter %q: %w: %q", def.Key, ErrUnknownKind, def.Kind)
	}
	return nil
}

// Conforms reports whether v has the shape a producer should store for def.
// Absent values conform: a plan may leave any filter unset. Dropdown values may
// also be stored as a list of the options a plan qualifies for.
func Conforms(def entities.FilterDefinition, v entities.Value) bool {
	switch v.Shape() {
	case entities.ShapeAbsent:
		return true
	case entities.ShapeList:
		if def.Kind == entities.KindDropdown {
			return true
		}
	}
	return v.Shape() == def.Kind.ValueShape()
}
