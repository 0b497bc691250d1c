package rendering

import (
	"strings"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
)

// View is the escaped, template-ready form of a normalized record. Every
// string field is already LaTeX-escaped.
type View struct {
	Template       string
	Name           string
	Title          string
	Summary        string
	Contact        []ContactLine
	Experience     []Entry
	Projects       []Entry
	Education      []Entry
	SkillGroups    []SkillGroup
	Skills         string
	Software       string
	Languages      string
	Certifications string
	Interests      string
	Hobbies        string
}

// ContactLine is one labeled contact value.
type ContactLine struct {
	Label string
	Value string
}

// Entry is an experience, project or education item.
type Entry struct {
	Heading    string
	Subheading string
	Dates      string
	Location   string
	Bullets    []string
}

// SkillGroup is a named list of skills, joined for display.
type SkillGroup struct {
	Category string
	Skills   string
}

// ContactValue returns the value for label, or "".
func (v *View) ContactValue(label string) string {
	for _, c := range v.Contact {
		if strings.EqualFold(c.Label, label) {
			return c.Value
		}
	}
	return ""
}

// ContactSummary joins the non-empty contact values with " | ".
func (v *View) ContactSummary() string {
	var parts []string
	for _, c := range v.Contact {
		if c.Value != "" {
			parts = append(parts, c.Value)
		}
	}
	return strings.Join(parts, " | ")
}

// BuildView maps a record normalized for templateID onto a View.
func BuildView(templateID string, record *resume.Map) (*View, error) {
	if !schemas.Known(templateID) {
		return nil, &schemas.UnknownTemplateError{ID: templateID}
	}
	v := &View{
		Template: templateID,
		Name:     esc(record.Text("name")),
		Title:    esc(record.Text("title")),
	}

	switch templateID {
	case schemas.Template1:
		v.Summary = esc(record.Text("summary"))
		v.Contact = contactMap(record, "Location", "Email", "Phone", "LinkedIn")
		for _, item := range items(record, "experience") {
			e := asMap(item)
			company, dates, location := resume.CompanyParts(e.Text("company"))
			v.Experience = append(v.Experience, Entry{
				Heading:    esc(e.Text("role")),
				Subheading: esc(company),
				Dates:      esc(dates),
				Location:   esc(location),
				Bullets:    bullets(e, "duties"),
			})
		}
		for _, item := range items(record, "projects") {
			e := asMap(item)
			v.Projects = append(v.Projects, Entry{
				Heading:    esc(e.Text("role")),
				Subheading: esc(e.Text("company")),
				Bullets:    bullets(e, "duties"),
			})
		}
		for _, item := range items(record, "education") {
			e := asMap(item)
			university, year := resume.UniversityParts(e.Text("university"))
			v.Education = append(v.Education, Entry{
				Heading:    esc(university),
				Subheading: esc(e.Text("degree")),
				Dates:      esc(year),
			})
		}
		v.SkillGroups = skillGroups(record)

	case schemas.Template2:
		v.Summary = esc(record.Text("summary"))
		v.Contact = contactMap(record, "Address", "Phone", "E-mail", "LinkedIn")
		for _, item := range items(record, "experience") {
			e := asMap(item)
			v.Experience = append(v.Experience, Entry{
				Heading:    esc(e.Text("role")),
				Subheading: esc(e.Text("company")),
				Dates:      esc(e.Text("dates")),
				Bullets:    bullets(e, "duties"),
			})
		}
		for _, item := range items(record, "education") {
			e := asMap(item)
			v.Education = append(v.Education, Entry{
				Heading:    esc(e.Text("role")),
				Subheading: esc(e.Text("university")),
				Bullets:    bullets(e, "duties"),
			})
		}
		v.Skills = esc(record.Text("skills"))
		v.Software = esc(record.Text("software"))
		v.Languages = esc(record.Text("languages"))
		v.Certifications = esc(record.Text("certifications"))
		v.Interests = esc(record.Text("interests"))

	case schemas.Template3:
		v.Summary = esc(record.Text("profile"))
		v.Contact = contactList(record, "Phone", "Website", "Email")
		for _, item := range items(record, "work_experience") {
			e := asMap(item)
			v.Experience = append(v.Experience, Entry{
				Heading:    esc(e.Text("company")),
				Subheading: esc(e.Text("role")),
				Dates:      esc(e.Text("dates")),
				Bullets:    bullets(e, "duties"),
			})
		}
		for _, item := range items(record, "education") {
			e := asMap(item)
			v.Education = append(v.Education, Entry{
				Heading:    esc(e.Text("university")),
				Subheading: esc(e.Text("degree")),
				Dates:      esc(e.Text("dates")),
				Bullets:    bullets(e, "details"),
			})
		}
		v.Skills = esc(record.Text("skills"))
		v.Hobbies = esc(record.Text("hobbies"))

	case schemas.Template4:
		v.Summary = esc(record.Text("profile_summary"))
		v.Contact = contactMap(record, "phone", "email", "address", "website")
		for _, item := range items(record, "work_experience") {
			e := asMap(item)
			v.Experience = append(v.Experience, Entry{
				Heading:    esc(e.Text("company")),
				Subheading: esc(e.Text("role")),
				Dates:      esc(e.Text("dates")),
				Bullets:    bullets(e, "duties"),
			})
		}
		for _, item := range items(record, "education") {
			e := asMap(item)
			v.Education = append(v.Education, Entry{
				Heading:    esc(e.Text("degree")),
				Subheading: esc(e.Text("university")),
				Dates:      esc(e.Text("dates")),
				Bullets:    bullets(e, "details"),
			})
		}
		v.Skills = esc(record.Text("skills"))
		var langs []string
		for _, item := range items(record, "languages") {
			e := asMap(item)
			l := e.Text("language")
			if level := e.Text("level"); level != "" {
				l += " (" + level + ")"
			}
			langs = append(langs, l)
		}
		v.Languages = esc(strings.Join(langs, ", "))
	}
	return v, nil
}

func esc(s string) string {
	return EscapeLaTeX(strings.TrimSpace(s))
}

func items(m *resume.Map, key string) []any {
	v, _ := m.Get(key)
	list, _ := v.([]any)
	return list
}

func asMap(v any) *resume.Map {
	if m, ok := v.(*resume.Map); ok {
		return m
	}
	return resume.NewMap()
}

// bullets reads a list of strings or a newline-joined string.
func bullets(m *resume.Map, key string) []string {
	v, _ := m.Get(key)
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			raw = append(raw, resume.Text(item))
		}
	case string:
		raw = strings.Split(t, "\n")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, EscapeLaTeX(s))
		}
	}
	return out
}

func contactMap(m *resume.Map, labels ...string) []ContactLine {
	v, _ := m.Get("contact")
	c := asMap(v)
	out := make([]ContactLine, 0, len(labels))
	for _, l := range labels {
		out = append(out, ContactLine{Label: l, Value: esc(c.Text(l))})
	}
	return out
}

func contactList(m *resume.Map, labels ...string) []ContactLine {
	v, _ := m.Get("contact")
	list, _ := v.([]any)
	out := make([]ContactLine, 0, len(labels))
	for i, l := range labels {
		var value string
		if i < len(list) {
			value = resume.Text(list[i])
		}
		out = append(out, ContactLine{Label: l, Value: esc(value)})
	}
	return out
}

func skillGroups(m *resume.Map) []SkillGroup {
	v, _ := m.Get("skills")
	groups, ok := v.(*resume.Map)
	if !ok {
		if s := m.Text("skills"); s != "" {
			return []SkillGroup{{Category: "Skills", Skills: esc(s)}}
		}
		return nil
	}
	var out []SkillGroup
	for _, cat := range groups.Keys() {
		if s := groups.Text(cat); s != "" {
			out = append(out, SkillGroup{Category: esc(cat), Skills: esc(s)})
		}
	}
	return out
}
