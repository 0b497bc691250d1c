package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMap_PreservesKeyOrder(t *testing.T) {
	m, err := ParseMap([]byte(`{"name":"Ada","skills":{"Zeta":["z"],"Alpha":["a","b"]},"summary":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "skills", "summary"}, m.Keys())

	skills, ok := m.Get("skills")
	require.True(t, ok)
	assert.Equal(t, []string{"Zeta", "Alpha"}, skills.(*Map).Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada","skills":{"Zeta":["z"],"Alpha":["a","b"]},"summary":"x"}`, string(out))
}

func TestParse_Scalars(t *testing.T) {
	v, err := Parse([]byte(`[1.50, true, false, null, "s"]`))
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1.50"), true, false, nil, "s"}, v)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = ParseMap([]byte(`["a"]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestMap_SetKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, "3", m.Text("a"))

	m.Delete("a")
	assert.Equal(t, []string{"b"}, m.Keys())
	m.Delete("b")
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
}

func TestMap_LookupCaseInsensitive(t *testing.T) {
	m := NewMap()
	m.Set("email", "a@b.c")

	v, ok := m.Lookup("Email")
	require.True(t, ok)
	assert.Equal(t, "a@b.c", v)

	_, ok = m.Lookup("Phone")
	assert.False(t, ok)
}

func TestMap_CloneIsDeep(t *testing.T) {
	orig, err := ParseMap([]byte(`{"experience":[{"duties":["a"]}]}`))
	require.NoError(t, err)

	cp := orig.Clone()
	exp, _ := cp.Get("experience")
	entry := exp.([]any)[0].(*Map)
	entry.Set("duties", []any{"changed"})
	entry.Set("role", "new")

	out, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.Equal(t, `{"experience":[{"duties":["a"]}]}`, string(out))
}

func TestMap_UnmarshalJSON(t *testing.T) {
	var m Map
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":2}`), &m))
	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestFromValue(t *testing.T) {
	v := FromValue(map[string]any{
		"skills": map[string][]string{"B": {"z"}, "A": {"x", "y"}},
		"name":   "Ada",
		"years":  3,
	})

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada","skills":{"A":["x","y"],"B":["z"]},"years":3}`, string(out))
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "go", "go"},
		{"number", json.Number("42"), "42"},
		{"bool", true, "true"},
		{"list", []any{"a", "", "b"}, "a, b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want []string
	}{
		{"full", "TechLogix | 2022 - Present | Islamabad", 3, []string{"TechLogix", "2022 - Present", "Islamabad"}},
		{"missing pieces", "TechLogix", 3, []string{"TechLogix", "", ""}},
		{"extra pieces", "a|b|c|d", 2, []string{"a", "b"}},
		{"empty", "", 2, []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFields(tt.in, tt.n))
		})
	}
}

func TestCompanyAndUniversityParts(t *testing.T) {
	name, dates, loc := CompanyParts("Acme | 2020")
	assert.Equal(t, "Acme", name)
	assert.Equal(t, "2020", dates)
	assert.Equal(t, "", loc)

	uni, year := UniversityParts("Bahria University | 2022")
	assert.Equal(t, "Bahria University", uni)
	assert.Equal(t, "2022", year)
}
