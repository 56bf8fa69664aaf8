package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceSingleField(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)
	answers := NewAnswerSet(schema)

	assert.False(t, nav.CanAdvance(1, answers))

	answers = answers.SetField("problem", "broken")
	assert.True(t, nav.CanAdvance(1, answers))
}

func TestCanAdvanceSentinelRequiresCompanion(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)
	answers := NewAnswerSet(schema).SetField("problem", "other")

	assert.False(t, nav.CanAdvance(1, answers), "sentinel without companion text")

	answers = answers.SetField("problemOther", "corto")
	assert.False(t, nav.CanAdvance(1, answers), "companion at the threshold is not enough")

	answers = answers.SetField("problemOther", "grifo roto")
	assert.True(t, nav.CanAdvance(1, answers))
}

func TestCanAdvanceCompanionWhitespaceTrimmed(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)
	answers := NewAnswerSet(schema).
		SetField("problem", "other").
		SetField("problemOther", "   ab   ")

	assert.False(t, nav.CanAdvance(1, answers))
}

func TestCanAdvanceMultiField(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)
	answers := NewAnswerSet(schema)

	assert.False(t, nav.CanAdvance(2, answers))
	answers = answers.ToggleInSet("zones", "a")
	assert.True(t, nav.CanAdvance(2, answers))
}

func TestCanAdvanceOptionalStep(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)

	assert.True(t, nav.CanAdvance(3, NewAnswerSet(schema)))
}

func TestAdvanceAbsorbsIncompleteStep(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)

	next, summary := nav.Advance(1, NewAnswerSet(schema))
	assert.Equal(t, 1, next)
	assert.False(t, summary)
}

func TestAdvanceReachesSummary(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)
	answers := completeMiniAnswers(schema)

	next, summary := nav.Advance(4, answers)
	assert.Equal(t, 4, next)
	assert.True(t, summary)
}

func TestRetreat(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)

	assert.Equal(t, 1, nav.Retreat(1, false), "step 1 is a no-op")
	assert.Equal(t, 2, nav.Retreat(3, false))
	assert.Equal(t, 4, nav.Retreat(4, true), "summary collapses without decrementing")
}

func TestComplete(t *testing.T) {
	schema := miniSchema(t)
	nav := NewNavigator(schema)

	assert.False(t, nav.Complete(NewAnswerSet(schema)))
	assert.True(t, nav.Complete(completeMiniAnswers(schema)))
}

func completeMiniAnswers(schema *Schema) AnswerSet {
	return NewAnswerSet(schema).
		SetField("problem", "broken").
		ToggleInSet("zones", "a").
		SetField("schedule", "asap")
}
