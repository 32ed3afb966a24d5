package entities

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Shape identifies which variant a Value holds.
type Shape uint8

const (
	ShapeAbsent Shape = iota
	ShapeString
	ShapeList
	ShapeBool
	ShapeNumber
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeList:
		return "list"
	case ShapeBool:
		return "boolean"
	case ShapeNumber:
		return "number"
	default:
		return "absent"
	}
}

// Value is a dynamic filter value as stored in a plan's attribute map or in a
// user's selection. The zero Value is absent.
//
// Values are immutable: constructors copy their input and accessors return copies.
type Value struct {
	shape Shape
	str   string
	list  []string
	flag  bool
	num   float64
}

// String builds a scalar string value
func String(s string) Value { return Value{shape: ShapeString, str: s} }

// List builds a list value. A nil or empty list is still a list, but it is not present.
func List(items ...string) Value {
	return Value{shape: ShapeList, list: slices.Clone(items)}
}

// Bool builds a boolean value
func Bool(b bool) Value { return Value{shape: ShapeBool, flag: b} }

// Number builds a numeric value
func Number(n float64) Value { return Value{shape: ShapeNumber, num: n} }

// Shape returns the variant held by v
func (v Value) Shape() Shape { return v.shape }

// IsPresent reports whether v constrains anything: not absent and, for lists, not empty.
func (v Value) IsPresent() bool {
	switch v.shape {
	case ShapeAbsent:
		return false
	case ShapeList:
		return len(v.list) > 0
	default:
		return true
	}
}

func (v Value) AsString() (string, bool) { return v.str, v.shape == ShapeString }

func (v Value) AsList() ([]string, bool) { return slices.Clone(v.list), v.shape == ShapeList }

func (v Value) AsBool() (bool, bool) { return v.flag, v.shape == ShapeBool }

func (v Value) AsNumber() (float64, bool) { return v.num, v.shape == ShapeNumber }

// Equal is strict equality between scalars of the same shape. Lists never
// compare equal, membership goes through Contains and Intersects.
func (v Value) Equal(other Value) bool {
	if v.shape != other.shape {
		return false
	}
	switch v.shape {
	case ShapeString:
		return v.str == other.str
	case ShapeBool:
		return v.flag == other.flag
	case ShapeNumber:
		return v.num == other.num
	default:
		return false
	}
}

// Contains reports whether v is a list holding the scalar string item.
func (v Value) Contains(item Value) bool {
	if v.shape != ShapeList || item.shape != ShapeString {
		return false
	}
	return slices.Contains(v.list, item.str)
}

// ContainsString is Contains for a plain string
func (v Value) ContainsString(s string) bool {
	return v.shape == ShapeList && slices.Contains(v.list, s)
}

// Intersects reports whether both v and other are lists sharing at least one element.
func (v Value) Intersects(other Value) bool {
	if v.shape != ShapeList || other.shape != ShapeList {
		return false
	}
	for _, item := range other.list {
		if slices.Contains(v.list, item) {
			return true
		}
	}
	return false
}

// Normalize turns a scalar string into a one-item list. Lists pass through,
// every other shape yields an empty list.
func (v Value) Normalize() []string {
	switch v.shape {
	case ShapeString:
		return []string{v.str}
	case ShapeList:
		return slices.Clone(v.list)
	default:
		return nil
	}
}

func (v Value) GoString() string {
	switch v.shape {
	case ShapeString:
		return strconv.Quote(v.str)
	case ShapeList:
		return fmt.Sprintf("%q", v.list)
	case ShapeBool:
		return strconv.FormatBool(v.flag)
	case ShapeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return "<absent>"
	}
}

func (v Value) native() any {
	switch v.shape {
	case ShapeString:
		return v.str
	case ShapeList:
		if v.list == nil {
			return []string{}
		}
		return v.list
	case ShapeBool:
		return v.flag
	case ShapeNumber:
		return v.num
	default:
		return nil
	}
}

// fromNative converts a decoded JSON/YAML value. Objects degrade to absent and
// non-string list elements are dropped.
func fromNative(raw any) Value {
	switch t := raw.(type) {
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case []any:
		items := make([]string, 0, len(t))
		for _, elem := range t {
			if s, ok := elem.(string); ok {
				items = append(items, s)
			}
		}
		return Value{shape: ShapeList, list: items}
	default:
		return Value{}
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = fromNative(raw)
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	return v.native(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*v = Value{}
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = Bool(b)
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*v = Number(n)
		default:
			*v = String(node.Value)
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode && child.ShortTag() == "!!str" {
				items = append(items, child.Value)
			}
		}
		*v = Value{shape: ShapeList, list: items}
	default:
		*v = Value{}
	}
	return nil
}

// Attributes maps filter keys to values. A missing key reads as absent.
type Attributes map[string]Value

// Get returns the value stored under key, absent when missing
func (a Attributes) Get(key string) Value {
	return a[key]
}

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Selections is the user's current choice per filter key
type Selections = Attributes
