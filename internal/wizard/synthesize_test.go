package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeOmitsUnansweredOptional(t *testing.T) {
	schema := miniSchema(t)
	answers := completeMiniAnswers(schema)

	text := Synthesize(schema, answers)

	assert.NotContains(t, text, "Detalles")
	assert.NotContains(t, text, "Dirección")
}

func TestSynthesizeRequiredEmptyRendersNA(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).SetField("problem", "broken")

	text := Synthesize(schema, answers)

	assert.Contains(t, text, "Zonas: N/A")
	assert.Contains(t, text, "Cuándo: N/A")
}

func TestSynthesizeFollowsDeclarationOrder(t *testing.T) {
	schema := miniSchema(t)
	answers := completeMiniAnswers(schema)

	text := Synthesize(schema, answers)

	problemAt := strings.Index(text, "Problema:")
	zonesAt := strings.Index(text, "Zonas:")
	scheduleAt := strings.Index(text, "Cuándo:")
	assert.True(t, problemAt < zonesAt && zonesAt < scheduleAt, "lines must follow field declaration order: %q", text)
}

func TestSynthesizeMultiJoinsLabelsInSelectionOrder(t *testing.T) {
	schema := miniSchema(t)
	answers := completeMiniAnswers(schema).
		ToggleInSet("zones", "c") // now [a, c]

	text := Synthesize(schema, answers)

	assert.Contains(t, text, "Zonas: Zona A, Zona C")
}

func TestSynthesizeSentinelUsesCompanionText(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).
		SetField("problem", "other").
		SetField("problemOther", "grifo roto en el patio")

	text := Synthesize(schema, answers)

	assert.Contains(t, text, "Problema: grifo roto en el patio")
	assert.NotContains(t, text, "Descripción:", "companion never renders its own line")
}

func TestSynthesizeSentinelFallback(t *testing.T) {
	schema := miniSchema(t)
	answers := NewAnswerSet(schema).SetField("problem", "other")

	text := Synthesize(schema, answers)

	assert.Contains(t, text, "Problema: Otro")
}

func TestSynthesizeAppendsAnnotationMarker(t *testing.T) {
	schema := miniSchema(t)

	calm := Synthesize(schema, completeMiniAnswers(schema))
	assert.NotContains(t, calm, "🚨")

	urgent := Synthesize(schema, completeMiniAnswers(schema).SetField("problem", "urgent"))
	assert.Contains(t, urgent, "Problema: Urgente 🚨")
}

func TestSynthesizeDeterministic(t *testing.T) {
	schema := miniSchema(t)
	answers := completeMiniAnswers(schema)

	assert.Equal(t, Synthesize(schema, answers), Synthesize(schema, answers))
}

func TestSynthesizePlumbingAnnotations(t *testing.T) {
	schema := loadSchema(t, "plumbing")
	answers := NewAnswerSet(schema).
		SetField("problem", "leak").
		SetField("severity", "high").
		SetField("waterShut", "no")

	text := Synthesize(schema, answers)

	assert.Contains(t, text, "Gravedad: Alta (inunda / no se puede usar) 🚨")
	assert.Contains(t, text, "Agua cortada: No ⚠️ Corte el agua si es posible")
	assert.NotContains(t, text, "Problema: Fuga de agua 🚨", "leak alone is not an emergency")
}
