package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswerSetDefaults(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema)

	assert.Equal(t, "", answers.String("problem"))
	assert.Empty(t, answers.List("zones"))
	assert.Empty(t, answers.Photos("photos"))
	assert.False(t, answers.Answered("problem"))
	assert.False(t, answers.Answered("zones"))
}

func TestSetFieldImmutable(t *testing.T) {
	schema := miniSchema(t)
	before := NewAnswerSet(schema)

	after := before.SetField("problem", "broken")

	assert.Equal(t, "", before.String("problem"), "original snapshot must be untouched")
	assert.Equal(t, "broken", after.String("problem"))
}

func TestSetFieldUnknownKeyIgnored(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema)

	same := answers.SetField("nope", "value")

	assert.Equal(t, answers.Map(), same.Map())
}

func TestSetFieldKindMismatchIgnored(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).SetField("problem", 42)

	assert.Equal(t, "", answers.String("problem"))
}

func TestSetFieldClampsTextLength(t *testing.T) {
	schema := miniSchema(t)
	long := "una descripción demasiado larga para el campo"
	answers := NewAnswerSet(schema).SetField("details", long)

	require.Len(t, []rune(answers.String("details")), 20)
	assert.Equal(t, string([]rune(long)[:20]), answers.String("details"))
}

func TestSetFieldAcceptsDecodedList(t *testing.T) {
	schema := miniSchema(t)
	// JSON decoding produces []any, not []string
	answers := NewAnswerSet(schema).SetField("zones", []any{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, answers.List("zones"))
}

func TestToggleInSet(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema)

	answers = answers.ToggleInSet("zones", "a")
	answers = answers.ToggleInSet("zones", "b")
	assert.Equal(t, []string{"a", "b"}, answers.List("zones"), "selection order preserved")

	answers = answers.ToggleInSet("zones", "a")
	assert.Equal(t, []string{"b"}, answers.List("zones"), "second toggle removes")

	answers = answers.ToggleInSet("zones", "b")
	answers = answers.ToggleInSet("zones", "b")
	assert.Equal(t, []string{"b"}, answers.List("zones"), "no duplicates")
}

func TestToggleInSetNonMultiIgnored(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).ToggleInSet("problem", "broken")

	assert.Equal(t, "", answers.String("problem"))
}

func TestMapExcludesPhotos(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).SetField("problem", "broken")

	m := answers.Map()
	_, hasPhotos := m["photos"]
	assert.False(t, hasPhotos)
	assert.Equal(t, "broken", m["problem"])
}

func TestMapCopiesLists(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).ToggleInSet("zones", "a")

	m := answers.Map()
	list := m["zones"].([]string)
	list[0] = "mutated"

	assert.Equal(t, []string{"a"}, answers.List("zones"))
}
