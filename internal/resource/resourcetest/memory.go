// Package resourcetest provides an in-memory resource.Client for tests.
package resourcetest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/resource"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpRemove = "remove"
)

type Call struct {
	Op     string
	Owner  string
	ID     entity.ID
	Fields map[string]any
}

// Memory stores records per owner and assigns numeric ids starting at 101.
type Memory struct {
	// Wrapper, when set, makes List answer {"<Wrapper>": [...]}.
	Wrapper string

	mu       sync.Mutex
	nextID   int
	records  map[string][]map[string]any
	calls    []Call
	failures map[string][]error
	payload  json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{
		nextID:   101,
		records:  make(map[string][]map[string]any),
		failures: make(map[string][]error),
	}
}

// Seed stores records as they are, without assigning ids.
func (m *Memory) Seed(owner string, records ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[owner] = append(m.records[owner], clone(r))
	}
}

// FailNext makes the next call of op return err. Queued failures are used
// in order.
func (m *Memory) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], err)
}

// RespondList makes every later List return raw instead of the stored
// records.
func (m *Memory) RespondList(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = json.RawMessage(raw)
}

func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Count returns how many calls of op were made.
func (m *Memory) Count(op string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (m *Memory) List(_ context.Context, owner string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(Call{Op: OpList, Owner: owner}); err != nil {
		return nil, err
	}
	if m.payload != nil {
		return m.payload, nil
	}
	list := m.records[owner]
	if list == nil {
		list = []map[string]any{}
	}
	if m.Wrapper != "" {
		return json.Marshal(map[string]any{m.Wrapper: list})
	}
	return json.Marshal(list)
}

func (m *Memory) Create(_ context.Context, owner string, fields map[string]any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(Call{Op: OpCreate, Owner: owner, Fields: clone(fields)}); err != nil {
		return nil, err
	}
	rec := clone(fields)
	rec["id"] = m.nextID
	rec["userId"] = owner
	m.nextID++
	m.records[owner] = append(m.records[owner], rec)
	return json.Marshal(rec)
}

func (m *Memory) Update(_ context.Context, owner string, id entity.ID, fields map[string]any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(Call{Op: OpUpdate, Owner: owner, ID: id, Fields: clone(fields)}); err != nil {
		return nil, err
	}
	i := m.index(owner, id)
	if i < 0 {
		return nil, &resource.StatusError{Code: http.StatusNotFound, Message: "Record not found"}
	}
	rec := m.records[owner][i]
	for k, v := range fields {
		rec[k] = v
	}
	return json.Marshal(rec)
}

func (m *Memory) Remove(_ context.Context, owner string, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(Call{Op: OpRemove, Owner: owner, ID: id}); err != nil {
		return err
	}
	i := m.index(owner, id)
	if i < 0 {
		return &resource.StatusError{Code: http.StatusNotFound, Message: "Record not found"}
	}
	list := m.records[owner]
	m.records[owner] = append(list[:i:i], list[i+1:]...)
	return nil
}

func (m *Memory) record(c Call) error {
	m.calls = append(m.calls, c)
	if queued := m.failures[c.Op]; len(queued) > 0 {
		m.failures[c.Op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (m *Memory) index(owner string, id entity.ID) int {
	for i, rec := range m.records[owner] {
		if got, ok := entity.ParseID(rec["id"]); ok && got == id {
			return i
		}
	}
	return -1
}

func clone(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ resource.Client = (*Memory)(nil)
