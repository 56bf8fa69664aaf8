package wizard

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/expr-lang/expr"
	goyaml "gopkg.in/yaml.v3"
)

//go:embed verticals/*.yaml
var verticalFiles embed.FS

// Registry holds the loaded schemas of all verticals.
type Registry struct {
	schemas map[string]*Schema
}

// LoadRegistry parses and validates every embedded vertical schema.
func LoadRegistry() (*Registry, error) {
	entries, err := fs.Glob(verticalFiles, "verticals/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("globbing vertical schemas: %w", err)
	}

	reg := &Registry{schemas: make(map[string]*Schema, len(entries))}
	for _, path := range entries {
		raw, err := verticalFiles.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", path, err)
		}

		schema, err := ParseSchema(raw)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", path, err)
		}
		if _, dup := reg.schemas[schema.Vertical]; dup {
			return nil, fmt.Errorf("duplicate vertical %q in %s", schema.Vertical, path)
		}
		reg.schemas[schema.Vertical] = schema
	}
	if len(reg.schemas) == 0 {
		return nil, fmt.Errorf("no vertical schemas embedded")
	}
	return reg, nil
}

// ParseSchema unmarshals one YAML schema, validates it, and compiles its
// condition expressions.
func ParseSchema(raw []byte) (*Schema, error) {
	var schema Schema
	if err := goyaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("unmarshalling: %w", err)
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	if err := schema.compile(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// compile builds the expr programs of annotation and urgency rules once.
// Conditions run against the flat answer map, so undefined variables are
// allowed and evaluate to nil.
func (s *Schema) compile() error {
	opts := []expr.Option{expr.AllowUndefinedVariables(), expr.AsBool()}

	for i := range s.Annotations {
		rule := &s.Annotations[i]
		if _, ok := s.FieldByKey(rule.Field); !ok {
			return fmt.Errorf("schema %s: annotation targets unknown field %q", s.Vertical, rule.Field)
		}
		prog, err := expr.Compile(rule.When, opts...)
		if err != nil {
			return fmt.Errorf("schema %s: annotation condition %q: %w", s.Vertical, rule.When, err)
		}
		rule.prog = prog
	}
	for i := range s.Urgency {
		rule := &s.Urgency[i]
		prog, err := expr.Compile(rule.When, opts...)
		if err != nil {
			return fmt.Errorf("schema %s: urgency condition %q: %w", s.Vertical, rule.When, err)
		}
		rule.prog = prog
	}
	return nil
}

// Get returns the schema of a vertical.
func (r *Registry) Get(vertical string) (*Schema, bool) {
	s, ok := r.schemas[vertical]
	return s, ok
}

// Verticals lists the registered vertical names, sorted.
func (r *Registry) Verticals() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
