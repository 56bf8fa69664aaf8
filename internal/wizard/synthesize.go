package wizard

import (
	"strings"

	"github.com/expr-lang/expr/vm"
)

// Synthesize renders the narrative description of a completed answer set:
// one line per answered field in the schema's declaration order. Unanswered
// optional fields are omitted silently; required fields always render, with
// "N/A" when somehow empty. Schema-declared annotation rules append their
// markers to the matching lines. The output is deterministic for a given
// answer set.
func Synthesize(schema *Schema, answers AnswerSet) string {
	env := answers.Map()
	companions := companionFields(schema)

	var lines []string
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if field.Kind == FieldPhotos || companions[field.Key] {
			continue
		}
		line, ok := renderLine(field, answers)
		if !ok {
			continue
		}
		for j := range schema.Annotations {
			rule := &schema.Annotations[j]
			if rule.Field == field.Key && evalCondition(rule.prog, env) {
				line += " " + rule.Marker
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// companionFields collects fields that render inline with their sentinel
// owner instead of on their own line.
func companionFields(schema *Schema) map[string]bool {
	out := make(map[string]bool)
	for _, f := range schema.Fields {
		if f.OtherField != "" {
			out[f.OtherField] = true
		}
	}
	return out
}

func renderLine(field *Field, answers AnswerSet) (string, bool) {
	switch field.Kind {
	case FieldSingle:
		value := answers.String(field.Key)
		if value == "" {
			return naLine(field)
		}
		if field.OtherValue != "" && value == field.OtherValue {
			text := strings.TrimSpace(answers.String(field.OtherField))
			if text == "" {
				text = field.OtherFallback
				if text == "" {
					text = "Otro"
				}
			}
			return field.Label + ": " + text, true
		}
		return field.Label + ": " + field.OptionLabel(value), true

	case FieldMulti:
		values := answers.List(field.Key)
		if len(values) == 0 {
			return naLine(field)
		}
		labels := make([]string, len(values))
		for i, v := range values {
			labels[i] = field.OptionLabel(v)
		}
		return field.Label + ": " + strings.Join(labels, ", "), true

	case FieldText, FieldDate:
		value := strings.TrimSpace(answers.String(field.Key))
		if value == "" {
			return naLine(field)
		}
		return field.Label + ": " + value, true
	}
	return "", false
}

func naLine(field *Field) (string, bool) {
	if field.Required {
		return field.Label + ": N/A", true
	}
	return "", false
}

// evalCondition runs a compiled schema condition over the answer map.
// Evaluation errors count as non-matching; a broken rule must never take
// down synthesis or submission.
func evalCondition(prog *vm.Program, env map[string]any) bool {
	if prog == nil {
		return false
	}
	out, err := vm.Run(prog, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}
