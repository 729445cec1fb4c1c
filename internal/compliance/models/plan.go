package models

// Option is a (code, label) pair for single-choice selectors.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Constraints bound what an input accepts. Zero lengths mean unbounded.
type Constraints struct {
	MinLength   int    `json:"min_length,omitempty"`
	MaxLength   int    `json:"max_length,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// FieldSpec is the resolved state of one candidate input.
type FieldSpec struct {
	Name        FieldName   `json:"name"`
	Visible     bool        `json:"visible"`
	Required    bool        `json:"required"`
	Invalid     bool        `json:"invalid"`
	Label       string      `json:"label,omitempty"`
	LabelID     string      `json:"label_id,omitempty"`
	Constraints Constraints `json:"constraints"`
	Options     []Option    `json:"options,omitempty"`
}

// WarningCode names a blocking condition shown above the form.
type WarningCode string

const (
	WarningUAEIndividualUnsupported WarningCode = "uae_individual_unsupported"
)

// Warning is a blocking message; the form stays editable.
type Warning struct {
	Code      WarningCode `json:"code"`
	Message   string      `json:"message"`
	MessageID string      `json:"message_id"`
}

// FieldPlan lists every candidate field in display order.
type FieldPlan struct {
	Fields   []FieldSpec `json:"fields"`
	Warnings []Warning   `json:"warnings"`
}

// Field returns the spec for name.
func (p FieldPlan) Field(name FieldName) (FieldSpec, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Visible returns the names of displayed fields in order.
func (p FieldPlan) Visible() []FieldName {
	var names []FieldName
	for _, f := range p.Fields {
		if f.Visible {
			names = append(names, f.Name)
		}
	}
	return names
}

// Blocking reports whether any warning is present.
func (p FieldPlan) Blocking() bool {
	return len(p.Warnings) > 0
}
