package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servihogar/entity"
)

var testIdentity = &entity.Identity{ID: "u1", Name: "Ana", Email: "ana@test.es"}

func newTestController(t *testing.T, schema *Schema, store JobStore) *Controller {
	t.Helper()
	c := NewController(schema, store, 2*time.Hour, 24*time.Hour, testLogger())
	return c
}

func TestSubmitIncompleteAnswers(t *testing.T) {
	schema := miniSchema(t)
	store := &memJobStore{}
	c := newTestController(t, schema, store)

	_, err := c.Submit(context.Background(), NewAnswerSet(schema), testIdentity, nil, "")
	require.Error(t, err)
	assert.Empty(t, store.jobs)
}

func TestSubmitAuthGate(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})

	_, err := c.Submit(context.Background(), completeMiniAnswers(schema), nil, nil, "")
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, StateAuthenticating, c.State())
}

func TestSubmitStoreFailureIsRetryable(t *testing.T) {
	schema := miniSchema(t)
	store := &memJobStore{fail: true}
	c := newTestController(t, schema, store)
	answers := completeMiniAnswers(schema)

	_, err := c.Submit(context.Background(), answers, testIdentity, nil, "")
	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())

	store.fail = false
	id, err := c.Submit(context.Background(), answers, testIdentity, nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, StateSuccess, c.State())
}

func TestSubmitIsNotIdempotent(t *testing.T) {
	schema := miniSchema(t)
	store := &memJobStore{}
	c := newTestController(t, schema, store)
	answers := completeMiniAnswers(schema)

	_, err := c.Submit(context.Background(), answers, testIdentity, nil, "")
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), answers, testIdentity, nil, "")
	require.NoError(t, err)

	assert.Len(t, store.jobs, 2, "no de-duplication key is attached")
}

func TestBuildJobFields(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})
	answers := completeMiniAnswers(schema).SetField("address", "Calle Mayor 1")

	job := c.BuildJob(answers, testIdentity, []string{"https://cdn.test/u1/a.jpg"}, "")

	assert.Equal(t, "u1", job.RequesterID)
	assert.Nil(t, job.AssigneeID, "jobs are created unassigned")
	assert.Equal(t, "Pruebas: Averiado", job.Title)
	assert.Equal(t, "broken", job.Subtype, "enum answers stored verbatim")
	assert.Equal(t, job.Description, job.Problem)
	assert.Equal(t, "Calle Mayor 1", job.Location)
	assert.Equal(t, entity.JobStatusActive, job.Status)
	assert.Equal(t, entity.NominalBaseRate, job.BaseRate)
	assert.Equal(t, 1, job.PhotoCount)
	assert.Equal(t, "Lo antes posible", job.TimePreference)
	assert.False(t, job.Urgent)
}

func TestBuildJobLocationOverrideWins(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})
	answers := completeMiniAnswers(schema).SetField("address", "Calle Mayor 1")

	job := c.BuildJob(answers, testIdentity, nil, "Plaza Nueva 2")
	assert.Equal(t, "Plaza Nueva 2", job.Location)
}

func TestBuildJobTitleSentinelUsesCompanion(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})
	answers := NewAnswerSet(schema).
		SetField("problem", "other").
		SetField("problemOther", "grifo roto en patio").
		ToggleInSet("zones", "a").
		SetField("schedule", "asap")

	job := c.BuildJob(answers, testIdentity, nil, "")
	assert.Equal(t, "Pruebas: grifo roto en patio", job.Title)
}

func TestBuildJobTitleTruncated(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})
	long := "una avería larguísima que no cabe en el encabezado de ninguna tarjeta del panel de profesionales"
	answers := NewAnswerSet(schema).
		SetField("problem", "other").
		SetField("problemOther", long).
		ToggleInSet("zones", "a").
		SetField("schedule", "asap")

	job := c.BuildJob(answers, testIdentity, nil, "")
	assert.LessOrEqual(t, len([]rune(job.Title)), entity.MaxTitleLength)
}

func TestUrgentFromRule(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})

	assert.False(t, c.Urgent(completeMiniAnswers(schema)))
	assert.True(t, c.Urgent(completeMiniAnswers(schema).SetField("problem", "urgent")))
}

func TestScheduledAtPrecedence(t *testing.T) {
	schema := loadSchema(t, "gardening")
	c := newTestController(t, schema, &memJobStore{})
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	// explicit date wins over everything
	withDate := NewAnswerSet(schema).SetField(schema.Schedule.DateField, "2026-09-15")
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), c.ScheduledAt(withDate, true))

	// urgent beats immediate
	assert.Equal(t, fixed.Add(2*time.Hour), c.ScheduledAt(NewAnswerSet(schema), true))
}

func TestScheduledAtImmediateAndDefault(t *testing.T) {
	schema := miniSchema(t)
	c := newTestController(t, schema, &memJobStore{})
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	immediate := NewAnswerSet(schema).SetField("schedule", "asap")
	assert.Equal(t, fixed, c.ScheduledAt(immediate, false))

	later := NewAnswerSet(schema).SetField("schedule", "week")
	assert.Equal(t, fixed.Add(24*time.Hour), c.ScheduledAt(later, false))
}
