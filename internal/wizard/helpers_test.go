package wizard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"servihogar/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadSchema(t *testing.T, vertical string) *Schema {
	t.Helper()
	reg, err := LoadRegistry()
	require.NoError(t, err)
	schema, ok := reg.Get(vertical)
	require.True(t, ok, "vertical %s not registered", vertical)
	return schema
}

const miniSchemaYAML = `
vertical: mini
category: "Pruebas"
lead_field: problem
location_field: address

schedule:
  field: schedule
  immediate: [asap]

steps:
  - index: 1
    title: "Problema"
    fields: [problem, problemOther]
    requires:
      - field: problem
        sentinel: other
        companion: problemOther
        min_len: 5
  - index: 2
    title: "Zonas"
    fields: [zones]
    requires:
      - field: zones
  - index: 3
    title: "Detalles"
    fields: [photos, details, address]
    optional: true
  - index: 4
    title: "Cuándo"
    fields: [schedule]
    requires:
      - field: schedule

fields:
  - key: problem
    kind: single
    label: "Problema"
    required: true
    other_value: other
    other_field: problemOther
    other_fallback: "Otro"
    options:
      - { value: broken, label: "Averiado" }
      - { value: urgent, label: "Urgente" }
      - { value: other, label: "Otro" }
  - key: problemOther
    kind: text
    label: "Descripción"
    max_len: 100
  - key: zones
    kind: multi
    label: "Zonas"
    required: true
    options:
      - { value: a, label: "Zona A" }
      - { value: b, label: "Zona B" }
      - { value: c, label: "Zona C" }
  - key: photos
    kind: photos
    label: "Fotos"
  - key: details
    kind: text
    label: "Detalles"
    max_len: 20
  - key: address
    kind: text
    label: "Dirección"
    max_len: 200
  - key: schedule
    kind: single
    label: "Cuándo"
    required: true
    options:
      - { value: asap, label: "Lo antes posible" }
      - { value: week, label: "Esta semana" }

annotations:
  - field: problem
    when: 'problem == "urgent"'
    marker: "🚨"

urgency:
  - when: 'problem == "urgent"'
`

func miniSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := ParseSchema([]byte(miniSchemaYAML))
	require.NoError(t, err)
	return schema
}

type memSlot struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemSlot() *memSlot {
	return &memSlot{m: make(map[string]string)}
}

func (s *memSlot) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memSlot) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memSlot) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

type memBlob struct {
	mu       sync.Mutex
	stored   map[string][]byte
	failSubs []string
}

func newMemBlob() *memBlob {
	return &memBlob{stored: make(map[string][]byte)}
}

func (b *memBlob) failPathsContaining(sub string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failSubs = append(b.failSubs, sub)
}

func (b *memBlob) Store(_ context.Context, path string, r io.Reader, _ entity.FileMetadata) error {
	b.mu.Lock()
	subs := append([]string{}, b.failSubs...)
	b.mu.Unlock()
	for _, sub := range subs {
		if strings.Contains(path, sub) {
			return fmt.Errorf("store unavailable for %s", path)
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.stored[path] = data
	b.mu.Unlock()
	return nil
}

func (b *memBlob) DurableURL(path string, _ time.Duration) (string, error) {
	return "https://cdn.test/" + path, nil
}

type memJobStore struct {
	mu   sync.Mutex
	jobs []*entity.Job
	fail bool
}

func (s *memJobStore) Create(_ context.Context, job *entity.Job) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", fmt.Errorf("store unavailable")
	}
	copied := *job
	s.jobs = append(s.jobs, &copied)
	return fmt.Sprintf("job-%d", len(s.jobs)), nil
}

func (s *memJobStore) last(t *testing.T) *entity.Job {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.jobs, "no job was created")
	return s.jobs[len(s.jobs)-1]
}

type notifyEvent struct {
	SessionID string
	Event     string
	Data      any
}

type memNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (n *memNotifier) Notify(sessionID, event string, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifyEvent{SessionID: sessionID, Event: event, Data: data})
}

func (n *memNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Event == event {
			c++
		}
	}
	return c
}
