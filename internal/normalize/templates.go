package normalize

import "github.com/jonathan/resume-optimizer/internal/schemas"

var summarySources = []string{"summary", "profile", "profile_summary"}

var canonicalContact = []ContactSlot{
	{Key: "Location"},
	{Key: "Email"},
	{Key: "Phone"},
	{Key: "LinkedIn"},
}

var entryFields = []ItemField{
	{Key: "role", Shape: ShapeText},
	{Key: "company", Shape: ShapeText},
	{Key: "duties", Shape: ShapeList},
}

var registry = map[string]*Schema{
	schemas.Template1: {
		ID: schemas.Template1,
		Fields: []Field{
			{Target: "name", Kind: KindText},
			{Target: "contact", Kind: KindContact, Contact: &ContactRule{Slots: canonicalContact}},
			{Target: "summary", Sources: summarySources, Kind: KindText},
			{Target: "experience", Sources: []string{"experience", "work_experience"}, Kind: KindRecords,
				Item: &ItemRule{Placeholder: "role", Fields: entryFields}},
			{Target: "education", Kind: KindRecords, Item: &ItemRule{
				Placeholder: "degree",
				Fields: []ItemField{
					{Key: "degree", Shape: ShapeText},
					{Key: "university", Shape: ShapeText},
				},
			}},
			{Target: "skills", Kind: KindSkillGroups},
			{Target: "projects", Kind: KindRecords, Item: &ItemRule{Placeholder: "role", Fields: entryFields}},
		},
	},

	schemas.Template2: {
		ID: schemas.Template2,
		Fields: []Field{
			{Target: "contact", Kind: KindContact, Contact: &ContactRule{Slots: []ContactSlot{
				{Key: "Address", From: "Location"},
				{Key: "Phone"},
				{Key: "E-mail", From: "Email"},
				{Key: "LinkedIn"},
			}}},
			{Target: "skills", Kind: KindSkillList},
			{Target: "software", Kind: KindList},
			{Target: "languages", Kind: KindList},
			{Target: "experience", Sources: []string{"experience", "work_experience"}, Kind: KindRecords,
				Item: &ItemRule{
					Placeholder: "role",
					Fields:      []ItemField{{Key: "duties", Shape: ShapeList}},
				}},
			{Target: "education", Kind: KindRecords, Item: &ItemRule{
				Placeholder: "role",
				Wrap:        []Slot{{Key: "duties", Value: []any{}}},
			}},
			{Target: "certifications", Kind: KindList},
			{Target: "interests", Kind: KindList},
		},
		Backfill: &Backfill{
			Target:  "experience",
			Sources: summarySources,
			Entry:   []Slot{{Key: "role", Value: ""}, {Key: "company", Value: ""}},
			DutyKey: "duties",
		},
	},

	schemas.Template3: {
		ID: schemas.Template3,
		Fields: []Field{
			{Target: "contact", Kind: KindContact, Contact: &ContactRule{
				Positional: true,
				Slots: []ContactSlot{
					{Key: "Phone"},
					{Key: "Website", From: "LinkedIn"},
					{Key: "Email"},
				},
			}},
			{Target: "work_experience", Sources: []string{"work_experience", "experience"}, Kind: KindRecords,
				Item: &ItemRule{
					Placeholder: "company",
					Wrap:        []Slot{{Key: "duties", Echo: true}},
					Fields:      []ItemField{{Key: "duties", Shape: ShapeLines}},
				}},
			{Target: "education", Kind: KindRecords, Item: &ItemRule{
				Placeholder: "university",
				Wrap:        []Slot{{Key: "details", Echo: true}},
				Fields:      []ItemField{{Key: "details", Shape: ShapeLines}},
			}},
			{Target: "skills", Kind: KindSkillList},
			{Target: "hobbies", Kind: KindList},
			{Target: "profile", Sources: summarySources, Kind: KindText},
		},
	},

	schemas.Template4: {
		ID: schemas.Template4,
		Fields: []Field{
			{Target: "contact", Kind: KindContact, Contact: &ContactRule{Slots: []ContactSlot{
				{Key: "phone", From: "Phone"},
				{Key: "email", From: "Email"},
				{Key: "address", From: "Location"},
				{Key: "website", From: "LinkedIn"},
			}}},
			{Target: "work_experience", Sources: []string{"work_experience", "experience"}, Kind: KindRecords, Limit: 2,
				Item: &ItemRule{
					Placeholder: "company",
					Wrap:        []Slot{{Key: "duties", Echo: true}},
					Fields:      []ItemField{{Key: "duties", Shape: ShapeList, Limit: 3}},
				}},
			{Target: "education", Kind: KindRecords, Limit: 2, Item: &ItemRule{
				Placeholder: "degree",
				Wrap:        []Slot{{Key: "details", Echo: true}},
				Fields:      []ItemField{{Key: "details", Shape: ShapeList, Limit: 2}},
			}},
			{Target: "skills", Kind: KindSkillList, Limit: 10},
			{Target: "languages", Kind: KindRecords, Item: &ItemRule{
				Placeholder: "language",
				Wrap:        []Slot{{Key: "level", Value: "Fluent"}},
			}},
			{Target: "profile_summary", Sources: summarySources, Kind: KindText},
		},
	},
}

// Lookup returns the rule set registered for a template.
func Lookup(id string) (*Schema, bool) {
	s, ok := registry[id]
	return s, ok
}
