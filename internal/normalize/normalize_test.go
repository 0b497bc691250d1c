package normalize

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
	"name": "Ada",
	"contact": {"Location": "London", "Email": "ada@example.com", "Phone": "123", "LinkedIn": "in/ada"},
	"summary": "Engineer.",
	"experience": [
		{"role": "Dev", "company": "Acme | 2020 | London", "duties": ["Built X", "Shipped Y"]},
		"Freelance"
	],
	"education": [{"degree": "BSc", "university": "UCL | 2019", "details": ["First", "Prize"]}],
	"skills": {"Tech": ["Go", "SQL"], "Soft": ["Talking"]}
}`

func parse(t *testing.T, s string) *resume.Map {
	t.Helper()
	m, err := resume.ParseMap([]byte(s))
	require.NoError(t, err)
	return m
}

func jsonOf(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func field(t *testing.T, m *resume.Map, key string) any {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func TestNormalize_EmptyRecordProducesValidDefaults(t *testing.T) {
	for _, id := range schemas.IDs() {
		t.Run(id, func(t *testing.T) {
			out, err := Normalize(resume.NewMap(), id)
			require.NoError(t, err)
			assert.NoError(t, schemas.Validate(id, out))
		})
	}
}

func TestNormalize_CanonicalDefaults(t *testing.T) {
	out, err := Normalize(resume.NewMap(), schemas.Template1)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"","contact":{"Location":"","Email":"","Phone":"","LinkedIn":""},"summary":"","experience":[],"education":[],"skills":{},"projects":[]}`,
		jsonOf(t, out))
}

func TestNormalize_NonMappingTreatedAsEmpty(t *testing.T) {
	inputs := map[string]any{
		"nil":    nil,
		"string": "not a record",
		"list":   []any{"a", "b"},
		"number": json.Number("42"),
	}
	want, err := Normalize(resume.NewMap(), schemas.Template4)
	require.NoError(t, err)

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, Inspect(in), ErrInvalidRecordShape)

			out, err := Normalize(in, schemas.Template4)
			require.NoError(t, err)
			assert.Equal(t, jsonOf(t, want), jsonOf(t, out))
		})
	}
}

func TestInspect_Mappings(t *testing.T) {
	assert.NoError(t, Inspect(resume.NewMap()))
	assert.NoError(t, Inspect(map[string]any{}))

	var nilMap *resume.Map
	assert.ErrorIs(t, Inspect(nilMap), ErrInvalidRecordShape)
}

func TestNormalize_UnknownTemplate(t *testing.T) {
	_, err := Normalize(resume.NewMap(), "template42")
	var ute *schemas.UnknownTemplateError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "template42", ute.ID)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := parse(t, sampleRecord)
	before := jsonOf(t, in)

	for _, id := range schemas.IDs() {
		out, err := Normalize(in, id)
		require.NoError(t, err)
		out.Set("name", "changed")
		exp, _ := out.Get("experience")
		if list, ok := exp.([]any); ok && len(list) > 0 {
			if entry, ok := list[0].(*resume.Map); ok {
				entry.Set("role", "changed")
			}
		}
	}

	assert.Equal(t, before, jsonOf(t, in))
}

func TestNormalize_IdempotentOnShapedRecords(t *testing.T) {
	for _, id := range schemas.IDs() {
		t.Run(id, func(t *testing.T) {
			first, err := Normalize(parse(t, sampleRecord), id)
			require.NoError(t, err)
			require.NoError(t, schemas.Validate(id, first))

			second, err := Normalize(first, id)
			require.NoError(t, err)
			assert.Equal(t, jsonOf(t, first), jsonOf(t, second))
		})
	}
}

func TestNormalize_AcceptsPlainMaps(t *testing.T) {
	out, err := Normalize(map[string]any{
		"summary": "Plain",
		"skills":  map[string]any{"A": []any{"x"}},
	}, schemas.Template3)
	require.NoError(t, err)

	assert.Equal(t, "Plain", out.Text("profile"))
	assert.Equal(t, `["x"]`, jsonOf(t, field(t, out, "skills")))
}

func TestFlattenSkills(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"categories keep order", `{"A":["x","y"],"B":["z"]}`, `["x","y","z"]`},
		{"category order is insertion order", `{"Z":["z"],"A":["a"]}`, `["z","a"]`},
		{"scalar category", `{"A":"solo","B":["b"]}`, `["solo","b"]`},
		{"list passes through", `["go","sql"]`, `["go","sql"]`},
		{"scalar becomes singleton", `"go"`, `["go"]`},
		{"empty string", `""`, `[]`},
		{"null", `null`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := resume.Parse([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, jsonOf(t, FlattenSkills(v)))
		})
	}
}

func TestNormalize_Template1Coercions(t *testing.T) {
	in := parse(t, `{
		"name": "Ada",
		"contact": {"email": "ada@example.com", "GitHub": "gh/ada"},
		"profile_summary": "From profile.",
		"experience": "Dev at Acme",
		"education": ["BSc Maths"],
		"skills": ["Go", "SQL"],
		"projects": [{"role": "Tool", "duties": "Wrote it"}]
	}`)

	out, err := Normalize(in, schemas.Template1)
	require.NoError(t, err)

	assert.Equal(t, `{"Location":"","Email":"ada@example.com","Phone":"","LinkedIn":""}`, jsonOf(t, field(t, out, "contact")))
	assert.Equal(t, "From profile.", out.Text("summary"))
	assert.Equal(t, `[{"role":"Dev at Acme","company":"","duties":[]}]`, jsonOf(t, field(t, out, "experience")))
	assert.Equal(t, `[{"degree":"BSc Maths","university":""}]`, jsonOf(t, field(t, out, "education")))
	assert.Equal(t, `{"Skills":["Go","SQL"]}`, jsonOf(t, field(t, out, "skills")))
	assert.Equal(t, `[{"role":"Tool","duties":["Wrote it"],"company":""}]`, jsonOf(t, field(t, out, "projects")))
	assert.NoError(t, schemas.Validate(schemas.Template1, out))
}

func TestNormalize_Template2(t *testing.T) {
	t.Run("contact renamed", func(t *testing.T) {
		out, err := Normalize(parse(t, `{"contact":{"Location":"X","Email":"e@x","Extra":"dropped"}}`), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `{"Address":"X","Phone":"","E-mail":"e@x","LinkedIn":""}`, jsonOf(t, field(t, out, "contact")))
	})

	t.Run("contact list read positionally", func(t *testing.T) {
		out, err := Normalize(parse(t, `{"contact":["Addr","555"]}`), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `{"Address":"Addr","Phone":"555","E-mail":"","LinkedIn":""}`, jsonOf(t, field(t, out, "contact")))
	})

	t.Run("summary backfills empty experience", func(t *testing.T) {
		out, err := Normalize(parse(t, `{"summary":"Seasoned engineer."}`), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `[{"role":"","company":"","duties":["Seasoned engineer."]}]`, jsonOf(t, field(t, out, "experience")))
	})

	t.Run("no backfill without summary", func(t *testing.T) {
		out, err := Normalize(resume.NewMap(), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `[]`, jsonOf(t, field(t, out, "experience")))
	})

	t.Run("scalars coerced to lists", func(t *testing.T) {
		out, err := Normalize(parse(t, `{"certifications":"AWS SA","interests":"","software":[{"name":"Vim"}]}`), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `["AWS SA"]`, jsonOf(t, field(t, out, "certifications")))
		assert.Equal(t, `[]`, jsonOf(t, field(t, out, "interests")))
		assert.Equal(t, `[{"name":"Vim"}]`, jsonOf(t, field(t, out, "software")))
		assert.Equal(t, `[]`, jsonOf(t, field(t, out, "languages")))
	})

	t.Run("bare education wrapped", func(t *testing.T) {
		out, err := Normalize(parse(t, `{"education":"MIT"}`), schemas.Template2)
		require.NoError(t, err)
		assert.Equal(t, `[{"role":"MIT","duties":[]}]`, jsonOf(t, field(t, out, "education")))
	})
}

func TestNormalize_Template3(t *testing.T) {
	out, err := Normalize(parse(t, sampleRecord), schemas.Template3)
	require.NoError(t, err)

	want := `{"name":"Ada","contact":["123","in/ada","ada@example.com"],"summary":"Engineer.",` +
		`"experience":[{"role":"Dev","company":"Acme | 2020 | London","duties":["Built X","Shipped Y"]},"Freelance"],` +
		`"education":[{"degree":"BSc","university":"UCL | 2019","details":"First\nPrize"}],` +
		`"skills":["Go","SQL","Talking"],` +
		`"work_experience":[{"role":"Dev","company":"Acme | 2020 | London","duties":"Built X\nShipped Y"},{"company":"Freelance","duties":"Freelance"}],` +
		`"hobbies":[],"profile":"Engineer."}`
	assert.Equal(t, want, jsonOf(t, out))
}

func TestNormalize_Template3ContactPadding(t *testing.T) {
	out, err := Normalize(parse(t, `{"contact":["only-phone"]}`), schemas.Template3)
	require.NoError(t, err)
	assert.Equal(t, `["only-phone","",""]`, jsonOf(t, field(t, out, "contact")))

	out, err = Normalize(parse(t, `{"contact":["a","b","c","d"]}`), schemas.Template3)
	require.NoError(t, err)
	assert.Equal(t, `["a","b","c"]`, jsonOf(t, field(t, out, "contact")))
}

func TestNormalize_Template4Caps(t *testing.T) {
	in := parse(t, `{
		"contact": {"Phone": "1", "Email": "e", "Location": "L", "LinkedIn": "in/x"},
		"summary": "S",
		"experience": [
			{"company": "A", "duties": ["a1", "a2", "a3", "a4"]},
			{"company": "B", "duties": "b1"},
			{"company": "C", "duties": ["c1"]}
		],
		"education": [
			{"degree": "D1", "details": ["x", "y", "z"]},
			{"degree": "D2"},
			{"degree": "D3"}
		],
		"skills": {"One": ["s1", "s2", "s3", "s4", "s5", "s6"], "Two": ["s7", "s8", "s9", "s10", "s11", "s12"]},
		"languages": ["English", {"language": "Urdu", "level": "Native"}]
	}`)

	out, err := Normalize(in, schemas.Template4)
	require.NoError(t, err)
	require.NoError(t, schemas.Validate(schemas.Template4, out))

	assert.Equal(t, `{"phone":"1","email":"e","address":"L","website":"in/x"}`, jsonOf(t, field(t, out, "contact")))
	assert.Equal(t,
		`[{"company":"A","duties":["a1","a2","a3"]},{"company":"B","duties":["b1"]}]`,
		jsonOf(t, field(t, out, "work_experience")))
	assert.Equal(t,
		`[{"degree":"D1","details":["x","y"]},{"degree":"D2","details":[]}]`,
		jsonOf(t, field(t, out, "education")))
	assert.Equal(t, `["s1","s2","s3","s4","s5","s6","s7","s8","s9","s10"]`, jsonOf(t, field(t, out, "skills")))
	assert.Equal(t,
		`[{"language":"English","level":"Fluent"},{"language":"Urdu","level":"Native"}]`,
		jsonOf(t, field(t, out, "languages")))
	assert.Equal(t, "S", out.Text("profile_summary"))
}

func TestNormalize_Template4WrapsBareEntries(t *testing.T) {
	out, err := Normalize(parse(t, `{"work_experience":"Consulting","education":"Self-taught"}`), schemas.Template4)
	require.NoError(t, err)

	assert.Equal(t, `[{"company":"Consulting","duties":["Consulting"]}]`, jsonOf(t, field(t, out, "work_experience")))
	assert.Equal(t, `[{"degree":"Self-taught","details":["Self-taught"]}]`, jsonOf(t, field(t, out, "education")))
}

func TestCanonicalize(t *testing.T) {
	out := Canonicalize(parse(t, `{"name":"Ada","skills":"Go"}`))
	assert.Equal(t, `{"Skills":["Go"]}`, jsonOf(t, field(t, out, "skills")))
	assert.NoError(t, schemas.Validate(schemas.Canonical, out))
}
