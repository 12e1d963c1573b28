// Package form holds the draft of one entity screen and drives it through
// Idle, Editing, Submitting and Errored.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// ErrBusy is returned for any change attempted while a submission is in
// flight.
var ErrBusy = errors.New("submission in progress")

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ValidationError lists the field messages of a rejected draft.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// SubmitFunc performs the mutation for a validated draft. payload is the
// encoded request body.
type SubmitFunc func(ctx context.Context, draft entity.Draft, payload map[string]any) error

// View is a read-only snapshot of the controller.
type View struct {
	State State
	Draft entity.Draft
	// Err is the last submission failure; nil unless State is Errored.
	Err error
}

type Controller struct {
	schema entity.Schema

	mu    sync.Mutex
	state State
	draft entity.Draft
	err   error
}

func New(schema entity.Schema) *Controller {
	return &Controller{schema: schema, draft: entity.NewDraft(schema)}
}

// BeginAdd starts an empty create-mode draft.
func (c *Controller) BeginAdd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrBusy
	}
	c.draft = entity.NewDraft(c.schema)
	c.state = Editing
	c.err = nil
	return nil
}

// BeginEdit hydrates the draft from e. The target id is captured here; an
// entity without a usable id is refused.
func (c *Controller) BeginEdit(e entity.Entity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrBusy
	}
	if !e.ID.Valid() {
		return fmt.Errorf("edit %s: %w", c.schema.Title, entity.ErrIdentity)
	}
	c.draft = entity.EditDraft(c.schema, e)
	c.state = Editing
	c.err = nil
	return nil
}

// Set stores a field value after input normalization and clears that
// field's error.
func (c *Controller) Set(field string, v any) error {
	if _, ok := c.schema.Field(field); !ok {
		return fmt.Errorf("unknown %s field %q", c.schema.Kind, field)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrBusy
	}
	c.draft.Fields[field] = c.schema.Normalize(field, v)
	delete(c.draft.Errors, field)
	if c.state == Idle {
		c.state = Editing
	}
	return nil
}

// Submit validates the draft and, when it is valid, calls fn outside the
// lock. On success the controller returns to Idle with an empty draft; on
// failure the draft and its mode are kept and the state becomes Errored.
func (c *Controller) Submit(ctx context.Context, fn SubmitFunc) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.draft.Editing && !c.draft.EditingID.Valid() {
		c.mu.Unlock()
		return fmt.Errorf("update %s: %w", c.schema.Title, entity.ErrIdentity)
	}
	if errs := c.schema.Validate(c.draft.Fields); len(errs) > 0 {
		c.draft.Errors = errs
		c.state = Errored
		c.err = &ValidationError{Fields: errs}
		c.mu.Unlock()
		return c.err
	}
	c.draft.Errors = map[string]string{}
	snapshot := c.draft.Clone()
	c.state = Submitting
	c.err = nil
	c.mu.Unlock()

	err := fn(ctx, snapshot, c.schema.Payload(snapshot.Fields))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Errored
		c.err = err
		return err
	}
	c.draft = entity.NewDraft(c.schema)
	c.state = Idle
	return nil
}

// Cancel discards the draft.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrBusy
	}
	c.draft = entity.NewDraft(c.schema)
	c.state = Idle
	c.err = nil
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{State: c.state, Draft: c.draft.Clone(), Err: c.err}
}
