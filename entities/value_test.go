package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueJSONDecoding(t *testing.T) {
	var attrs Attributes
	err := json.Unmarshal([]byte(`{
		"city": "new-york",
		"conditions": ["diabetes", 3, "asthma", null],
		"family": true,
		"budget": 199.99,
		"nothing": null,
		"nested": {"a": 1}
	}`), &attrs)
	require.NoError(t, err)

	s, ok := attrs.Get("city").AsString()
	assert.True(t, ok)
	assert.Equal(t, "new-york", s)

	list, ok := attrs.Get("conditions").AsList()
	assert.True(t, ok)
	assert.Equal(t, []string{"diabetes", "asthma"}, list, "non-string elements are dropped")

	b, ok := attrs.Get("family").AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	n, ok := attrs.Get("budget").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 199.99, n)

	assert.Equal(t, ShapeAbsent, attrs.Get("nothing").Shape())
	assert.Equal(t, ShapeAbsent, attrs.Get("nested").Shape())
	assert.Equal(t, ShapeAbsent, attrs.Get("missing").Shape())
}

func TestValueJSONEncoding(t *testing.T) {
	out, err := json.Marshal(Attributes{
		"a": String("x"),
		"b": List(),
		"c": Bool(false),
		"d": Number(2.5),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":[],"c":false,"d":2.5}`, string(out))
}

func TestValueYAMLDecoding(t *testing.T) {
	var attrs Attributes
	err := yaml.Unmarshal([]byte(`
city: [new-york, chicago]
ageGroup: "18-29"
senior: 61+
budget: 300
family: false
none: ~
obj: {a: 1}
`), &attrs)
	require.NoError(t, err)

	assert.True(t, attrs.Get("city").ContainsString("chicago"))
	assert.True(t, attrs.Get("ageGroup").Equal(String("18-29")))
	assert.True(t, attrs.Get("senior").Equal(String("61+")))
	assert.True(t, attrs.Get("budget").Equal(Number(300)))
	assert.True(t, attrs.Get("family").Equal(Bool(false)))
	assert.False(t, attrs.Get("none").IsPresent())
	assert.False(t, attrs.Get("obj").IsPresent())
}

func TestValuePresenceAndEquality(t *testing.T) {
	assert.False(t, Value{}.IsPresent())
	assert.False(t, List().IsPresent())
	assert.True(t, List("a").IsPresent())
	assert.True(t, String("").IsPresent())
	assert.True(t, Bool(false).IsPresent())

	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("1").Equal(Number(1)))
	assert.False(t, List("a").Equal(List("a")), "lists never compare equal")

	assert.True(t, List("a", "b").Contains(String("b")))
	assert.False(t, String("b").Contains(String("b")))
	assert.True(t, List("a", "b").Intersects(List("c", "b")))
	assert.False(t, List("a").Intersects(String("a")))

	assert.Equal(t, []string{"x"}, String("x").Normalize())
	assert.Nil(t, Bool(true).Normalize())
}

func TestValueIsImmutable(t *testing.T) {
	items := []string{"a", "b"}
	v := List(items...)
	items[0] = "z"

	got, _ := v.AsList()
	got[1] = "y"

	again, _ := v.AsList()
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestCatalogCloneIsDeep(t *testing.T) {
	price := 10.0
	c := Catalog{
		Plans:     []HealthPlan{{ID: "p", CoversMedicines: []string{"m"}, Filters: Attributes{"k": String("v")}}},
		Medicines: []Medicine{{ID: "m", Price: &price, CompanyIDs: []string{"c"}}},
	}
	clone := c.Clone()
	clone.Plans[0].CoversMedicines[0] = "other"
	clone.Plans[0].Filters["k"] = String("changed")
	*clone.Medicines[0].Price = 99

	assert.Equal(t, "m", c.Plans[0].CoversMedicines[0])
	assert.True(t, c.Plans[0].Filters.Get("k").Equal(String("v")))
	assert.Equal(t, 10.0, *c.Medicines[0].Price)
}
