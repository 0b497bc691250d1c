// Package normalize adapts one canonical resume record into the shape each
// rendering template expects. Every template is described by a Schema: a
// declarative list of field rules interpreted by one engine (Apply).
package normalize

// Kind is the container shape a field is coerced into.
type Kind int

const (
	// KindText is a single string.
	KindText Kind = iota
	// KindList is a sequence; scalars become singleton sequences.
	KindList
	// KindRecords is a sequence of records; bare items are wrapped.
	KindRecords
	// KindSkillGroups is a mapping from category to a list of skills.
	KindSkillGroups
	// KindSkillList is a flat list of skills in category order.
	KindSkillList
	// KindContact is contact details as a keyed mapping or a positional list.
	KindContact
)

// Shape is the form of a field inside a record item.
type Shape int

const (
	// ShapeText coerces the value to a string.
	ShapeText Shape = iota
	// ShapeList coerces the value to a list of strings.
	ShapeList
	// ShapeLines joins a list into one newline-separated string.
	ShapeLines
)

// Schema is the full rule set for one template.
type Schema struct {
	ID       string
	Fields   []Field
	Backfill *Backfill
}

// Field describes one top-level target field.
type Field struct {
	Target string
	// Sources are read in order; the first non-empty one wins.
	// Defaults to Target alone.
	Sources []string
	Kind    Kind
	// Limit truncates sequences; zero means unbounded.
	Limit   int
	Item    *ItemRule
	Contact *ContactRule
}

// ItemRule shapes each entry of a KindRecords field.
type ItemRule struct {
	// Placeholder is the key a bare scalar item is stored under.
	Placeholder string
	// Wrap lists extra keys set on a wrapped scalar item.
	Wrap   []Slot
	Fields []ItemField
}

// Slot is a key set on a wrapped item. Echo repeats the wrapped scalar.
type Slot struct {
	Key   string
	Value any
	Echo  bool
}

// ItemField coerces one key inside a record item. Missing keys are created empty.
type ItemField struct {
	Key   string
	Shape Shape
	Limit int
}

// ContactRule maps contact details onto a fixed ordered slot list.
type ContactRule struct {
	Slots []ContactSlot
	// Positional emits a list in slot order instead of a mapping.
	Positional bool
}

// ContactSlot is one target contact key and the canonical key it is read from.
type ContactSlot struct {
	Key  string
	From string
}

// Backfill synthesizes a single entry for an empty required section from the summary.
type Backfill struct {
	Target  string
	Sources []string
	Entry   []Slot
	DutyKey string
}
