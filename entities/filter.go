package entities

import "slices"

// FilterKind tags a FilterDefinition with the shape its values take.
type FilterKind string

const (
	KindDropdown    FilterKind = "dropdown"
	KindMultiselect FilterKind = "multiselect"
	KindBoolean     FilterKind = "boolean"
	KindRange       FilterKind = "range"
	KindText        FilterKind = "text"
)

// Kinds lists every supported kind in display order
var Kinds = []FilterKind{KindDropdown, KindMultiselect, KindBoolean, KindRange, KindText}

// Valid reports whether k is one of the five supported kinds
func (k FilterKind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// ValueShape is the shape a conforming producer stores for this kind
func (k FilterKind) ValueShape() Shape {
	switch k {
	case KindDropdown, KindText:
		return ShapeString
	case KindMultiselect:
		return ShapeList
	case KindBoolean:
		return ShapeBool
	case KindRange:
		return ShapeNumber
	default:
		return ShapeAbsent
	}
}

type FilterOption struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label" validate:"required"`
	Value string `json:"value" yaml:"value" validate:"required"`
}

// FilterDefinition describes one admin-configurable filter. Options apply to
// dropdown and multiselect, Min and Max to range.
type FilterDefinition struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Key      string         `json:"key" yaml:"key" validate:"required,max=64"`
	Kind     FilterKind     `json:"type" yaml:"type" validate:"required"`
	Options  []FilterOption `json:"options,omitempty" yaml:"options,omitempty" validate:"dive"`
	Min      *float64       `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64       `json:"max,omitempty" yaml:"max,omitempty"`
	Required bool           `json:"required,omitempty" yaml:"required,omitempty"`
}

func (f FilterDefinition) Clone() FilterDefinition {
	f.Options = slices.Clone(f.Options)
	if f.Min != nil {
		v := *f.Min
		f.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		f.Max = &v
	}
	return f
}

// HasOption reports whether value is one of the configured option values
func (f FilterDefinition) HasOption(value string) bool {
	return slices.ContainsFunc(f.Options, func(o FilterOption) bool { return o.Value == value })
}
