package wizard

import "strings"

// Navigator computes step completion and movement over a schema. Gating is
// advisory to forward movement only: invalid transitions are silently
// absorbed and retreat never re-validates the step being left.
type Navigator struct {
	schema *Schema
}

func NewNavigator(schema *Schema) *Navigator {
	return &Navigator{schema: schema}
}

// CanAdvance evaluates the completion predicate of the given step.
func (n *Navigator) CanAdvance(stepIndex int, answers AnswerSet) bool {
	step, ok := n.schema.StepAt(stepIndex)
	if !ok {
		return false
	}
	if step.Optional {
		return true
	}
	for _, req := range step.Requires {
		if !n.satisfied(req, answers) {
			return false
		}
	}
	return true
}

func (n *Navigator) satisfied(req Requirement, answers AnswerSet) bool {
	field, ok := n.schema.FieldByKey(req.Field)
	if !ok {
		return false
	}
	switch field.Kind {
	case FieldSingle, FieldDate:
		value := answers.String(req.Field)
		if value == "" {
			return false
		}
		if req.Sentinel != "" && value == req.Sentinel {
			companion := strings.TrimSpace(answers.String(req.Companion))
			return len([]rune(companion)) > req.MinLen
		}
		return true
	case FieldMulti:
		return len(answers.List(req.Field)) > 0
	case FieldText:
		text := strings.TrimSpace(answers.String(req.Field))
		return len([]rune(text)) > req.MinLen
	case FieldPhotos:
		return len(answers.Photos(req.Field)) > 0
	}
	return false
}

// Advance returns the next step index, or reachedSummary=true when the last
// step completes. An incomplete step absorbs the transition: the returned
// index equals the current one.
func (n *Navigator) Advance(stepIndex int, answers AnswerSet) (next int, reachedSummary bool) {
	if !n.CanAdvance(stepIndex, answers) {
		return stepIndex, false
	}
	if stepIndex >= n.schema.TotalSteps() {
		return stepIndex, true
	}
	return stepIndex + 1, false
}

// Retreat moves back unconditionally. From the summary it returns to the
// last wizard step without decrementing; from step 1 it is a no-op.
func (n *Navigator) Retreat(stepIndex int, viewingSummary bool) int {
	if viewingSummary {
		return stepIndex
	}
	if stepIndex <= 1 {
		return 1
	}
	return stepIndex - 1
}

// Complete reports whether every non-optional step up to and including the
// last is complete, the condition for the summary to be reachable.
func (n *Navigator) Complete(answers AnswerSet) bool {
	for i := 1; i <= n.schema.TotalSteps(); i++ {
		if !n.CanAdvance(i, answers) {
			return false
		}
	}
	return true
}
