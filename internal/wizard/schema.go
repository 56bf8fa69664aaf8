package wizard

import (
	"fmt"

	"github.com/expr-lang/expr/vm"
)

// FieldKind enumerates the answer value types a field can hold.
type FieldKind string

const (
	FieldSingle FieldKind = "single" // nullable single-select enum
	FieldMulti  FieldKind = "multi"  // multi-select set of enum values
	FieldText   FieldKind = "text"   // length-bounded free text
	FieldPhotos FieldKind = "photos" // ordered list of photo entries
	FieldDate   FieldKind = "date"   // explicit scheduling date (RFC3339)
)

// Option is one selectable value of an enum field.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Field declares one answer slot of a vertical. The declaration order of
// fields in the schema drives the synthesized description.
type Field struct {
	Key      string    `yaml:"key"`
	Kind     FieldKind `yaml:"kind"`
	Label    string    `yaml:"label"`
	Required bool      `yaml:"required,omitempty"`
	Options  []Option  `yaml:"options,omitempty"`
	MaxLen   int       `yaml:"max_len,omitempty"`

	// Other-sentinel support: selecting OtherValue unlocks the companion
	// free-text field OtherField; OtherFallback renders when the companion
	// text is empty (e.g. "sí", "Otro").
	OtherValue    string `yaml:"other_value,omitempty"`
	OtherField    string `yaml:"other_field,omitempty"`
	OtherFallback string `yaml:"other_fallback,omitempty"`
}

// OptionLabel resolves a value code to its display label, falling back to
// the raw value for codes the schema does not know.
func (f *Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Requirement is one clause of a step's completion predicate.
type Requirement struct {
	Field string `yaml:"field"`
	// Sentinel/Companion: when the named single field holds Sentinel, the
	// companion text field must carry more than MinLen trimmed characters.
	Sentinel  string `yaml:"sentinel,omitempty"`
	Companion string `yaml:"companion,omitempty"`
	MinLen    int    `yaml:"min_len,omitempty"`
}

// Step is one screen of the wizard. Indices are contiguous and 1-based.
type Step struct {
	Index    int           `yaml:"index"`
	Title    string        `yaml:"title"`
	Fields   []string      `yaml:"fields"`
	Optional bool          `yaml:"optional,omitempty"`
	Requires []Requirement `yaml:"requires,omitempty"`
}

// AnnotationRule appends a marker to a synthesized line when its condition
// holds over the answer set.
type AnnotationRule struct {
	Field  string `yaml:"field"`
	When   string `yaml:"when"`
	Marker string `yaml:"marker"`

	prog *vm.Program
}

// UrgencyRule marks the whole request urgent when its condition holds.
type UrgencyRule struct {
	When string `yaml:"when"`

	prog *vm.Program
}

// ScheduleRule declares how the scheduled timestamp derives from answers.
type ScheduleRule struct {
	Field     string   `yaml:"field,omitempty"`      // schedule answer field
	Immediate []string `yaml:"immediate,omitempty"`  // values meaning "right now"
	DateField string   `yaml:"date_field,omitempty"` // explicit date field, if the vertical has one
}

// Schema is the static declaration of one vertical's wizard.
type Schema struct {
	Vertical      string           `yaml:"vertical"`
	Category      string           `yaml:"category"`
	LeadField     string           `yaml:"lead_field"` // anchor field; also titles the job
	LocationField string           `yaml:"location_field,omitempty"`
	Steps         []Step           `yaml:"steps"`
	Fields        []Field          `yaml:"fields"`
	Annotations   []AnnotationRule `yaml:"annotations,omitempty"`
	Urgency       []UrgencyRule    `yaml:"urgency,omitempty"`
	Schedule      ScheduleRule     `yaml:"schedule,omitempty"`
}

// TotalSteps returns the fixed step count of the vertical.
func (s *Schema) TotalSteps() int {
	return len(s.Steps)
}

// StepAt returns the step with the given 1-based index.
func (s *Schema) StepAt(index int) (*Step, bool) {
	if index < 1 || index > len(s.Steps) {
		return nil, false
	}
	return &s.Steps[index-1], true
}

// FieldByKey returns the declaration of a field.
func (s *Schema) FieldByKey(key string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// PhotoField returns the key of the vertical's photo field, or "".
func (s *Schema) PhotoField() string {
	for i := range s.Fields {
		if s.Fields[i].Kind == FieldPhotos {
			return s.Fields[i].Key
		}
	}
	return ""
}

// validate checks structural invariants after loading.
func (s *Schema) validate() error {
	if s.Vertical == "" {
		return fmt.Errorf("schema missing vertical name")
	}
	if s.Category == "" {
		return fmt.Errorf("schema %s: missing category", s.Vertical)
	}
	if _, ok := s.FieldByKey(s.LeadField); !ok {
		return fmt.Errorf("schema %s: lead field %q not declared", s.Vertical, s.LeadField)
	}
	for i, st := range s.Steps {
		if st.Index != i+1 {
			return fmt.Errorf("schema %s: step indices must be contiguous from 1, got %d at position %d", s.Vertical, st.Index, i)
		}
		for _, key := range st.Fields {
			if _, ok := s.FieldByKey(key); !ok {
				return fmt.Errorf("schema %s: step %d references unknown field %q", s.Vertical, st.Index, key)
			}
		}
		for _, req := range st.Requires {
			if _, ok := s.FieldByKey(req.Field); !ok {
				return fmt.Errorf("schema %s: step %d requires unknown field %q", s.Vertical, st.Index, req.Field)
			}
			if req.Companion != "" {
				if _, ok := s.FieldByKey(req.Companion); !ok {
					return fmt.Errorf("schema %s: step %d companion %q not declared", s.Vertical, st.Index, req.Companion)
				}
			}
		}
	}
	kinds := map[FieldKind]bool{FieldSingle: true, FieldMulti: true, FieldText: true, FieldPhotos: true, FieldDate: true}
	for _, f := range s.Fields {
		if !kinds[f.Kind] {
			return fmt.Errorf("schema %s: field %q has unknown kind %q", s.Vertical, f.Key, f.Kind)
		}
	}
	if s.Schedule.Field != "" {
		if _, ok := s.FieldByKey(s.Schedule.Field); !ok {
			return fmt.Errorf("schema %s: schedule field %q not declared", s.Vertical, s.Schedule.Field)
		}
	}
	return nil
}
