// Package screen wires the form controller, list reconciler and notifier
// of one entity kind together. A Screen is the headless equivalent of a
// management page: every user intent is a method and every outcome is
// either a returned error or a notification.
package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/form"
	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/mapper"
	"github.com/vikasavnish/carecoord/internal/notify"
	"github.com/vikasavnish/carecoord/internal/reconcile"
	"github.com/vikasavnish/carecoord/internal/resource"
)

// FilteredNoticeDuration is how long the "incomplete data" note stays up.
const FilteredNoticeDuration = 5 * time.Second

type Options struct {
	Logger *slog.Logger
}

type Screen struct {
	schema entity.Schema
	owner  string
	client resource.Client
	notes  *notify.Emitter
	form   *form.Controller
	// list is nil for kinds without a collection.
	list   *reconcile.Reconciler
	logger *slog.Logger

	mu      sync.Mutex
	pending entity.ID
	// mutating is set while a submit or delete, including its reload, runs.
	mutating bool
}

func New(schema entity.Schema, owner string, client resource.Client, notes *notify.Emitter, opts Options) *Screen {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Screen{
		schema: schema,
		owner:  owner,
		client: client,
		notes:  notes,
		form:   form.New(schema),
		logger: logger.With("screen", schema.Kind, "owner", owner),
	}
	if schema.Listed {
		s.list = reconcile.New(client, mapper.New(schema), owner, logger)
	}
	return s
}

func (s *Screen) Schema() entity.Schema {
	return s.schema
}

// Load refreshes the list. Filtered records are reported as an info note.
func (s *Screen) Load(ctx context.Context) error {
	if s.list == nil {
		return nil
	}
	res, err := s.list.Reload(ctx)
	if err != nil {
		s.logger.Error("load failed", "error", err)
		s.notes.Show(resource.Message(err, s.schema.Text.LoadFailed), notify.Error)
		return err
	}
	if msg := res.Notice(s.schema); msg != "" {
		s.logger.Warn("records filtered", "count", res.Filtered(), "total", res.Total)
		s.notes.ShowFor(msg, notify.Info, FilteredNoticeDuration)
	}
	return nil
}

// Items returns the current list, or nil for kinds without one.
func (s *Screen) Items() []entity.Entity {
	if s.list == nil {
		return nil
	}
	return s.list.Items()
}

func (s *Screen) Form() form.View {
	return s.form.View()
}

func (s *Screen) BeginAdd() error {
	return s.form.BeginAdd()
}

// Edit opens the draft of the listed entity id.
func (s *Screen) Edit(id entity.ID) error {
	e, ok := s.lookup(id)
	if !ok {
		return s.identityError("edit", id)
	}
	if err := s.form.BeginEdit(e); err != nil {
		if errors.Is(err, entity.ErrIdentity) {
			return s.identityError("edit", id)
		}
		return err
	}
	return nil
}

func (s *Screen) Set(field string, v any) error {
	return s.form.Set(field, v)
}

func (s *Screen) Cancel() error {
	return s.form.Cancel()
}

// Submit sends the draft as a create or an update, then reloads the list.
// Field errors stay on the draft and produce no notification.
func (s *Screen) Submit(ctx context.Context) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	var updated bool
	err := s.form.Submit(ctx, func(ctx context.Context, d entity.Draft, payload map[string]any) error {
		updated = d.Editing
		if d.Editing {
			_, err := s.client.Update(ctx, s.owner, d.EditingID, payload)
			return err
		}
		_, err := s.client.Create(ctx, s.owner, payload)
		return err
	})

	var verr *form.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr), errors.Is(err, form.ErrBusy):
		return err
	case errors.Is(err, entity.ErrIdentity):
		return s.identityError("update", s.form.View().Draft.EditingID)
	default:
		s.logger.Error("submit failed", "updated", updated, "error", err)
		s.notes.Show(resource.Message(err, s.schema.Text.SaveFailed), notify.Error)
		return err
	}

	msg := s.schema.Text.Added
	if updated {
		msg = s.schema.Text.Updated
	}
	s.notes.Show(msg, notify.Success)
	if s.list != nil {
		if err := s.Load(ctx); err != nil {
			return fmt.Errorf("reload after save: %w", err)
		}
	}
	return nil
}

// RequestDelete asks for confirmation of deleting id. Nothing is sent
// until ConfirmDelete.
func (s *Screen) RequestDelete(id entity.ID) error {
	if _, ok := s.lookup(id); !ok {
		return s.identityError("delete", id)
	}
	s.mu.Lock()
	s.pending = id
	s.mu.Unlock()
	return nil
}

// PendingDelete returns the id awaiting confirmation.
func (s *Screen) PendingDelete() (entity.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.pending != ""
}

func (s *Screen) DismissDelete() {
	s.mu.Lock()
	s.pending = ""
	s.mu.Unlock()
}

// ConfirmDelete deletes the pending id. The pending id survives a busy
// screen.
func (s *Screen) ConfirmDelete(ctx context.Context) error {
	if s.list == nil {
		return fmt.Errorf("delete %s: %w", s.schema.Kind, resource.ErrUnsupported)
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	id := s.pending
	s.pending = ""
	s.mu.Unlock()
	return s.delete(ctx, id)
}

// Delete removes id without asking for confirmation.
func (s *Screen) Delete(ctx context.Context, id entity.ID) error {
	if s.list == nil {
		return fmt.Errorf("delete %s: %w", s.schema.Kind, resource.ErrUnsupported)
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	return s.delete(ctx, id)
}

func (s *Screen) delete(ctx context.Context, id entity.ID) error {
	err := s.list.Delete(ctx, id)
	switch {
	case err == nil:
		level := notify.Success
		if s.schema.Text.DeletedInfo {
			level = notify.Info
		}
		s.notes.Show(s.schema.Text.Deleted, level)
		return nil
	case errors.Is(err, entity.ErrIdentity):
		return s.identityError("delete", id)
	default:
		s.logger.Error("delete failed", "id", id, "error", err)
		s.notes.Show(resource.Message(err, s.schema.Text.DeleteFailed), notify.Error)
		return err
	}
}

// acquire claims the screen for one mutation. A screen already mutating
// answers form.ErrBusy.
func (s *Screen) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutating {
		return form.ErrBusy
	}
	s.mutating = true
	return nil
}

func (s *Screen) release() {
	s.mu.Lock()
	s.mutating = false
	s.mu.Unlock()
}

func (s *Screen) lookup(id entity.ID) (entity.Entity, bool) {
	if s.list == nil || !id.Valid() {
		return entity.Entity{}, false
	}
	return s.list.Find(id)
}

// identityError reports an action that has no usable target.
func (s *Screen) identityError(action string, id entity.ID) error {
	msg := fmt.Sprintf("Cannot %s %s: Invalid %s ID", action, s.schema.Title, s.schema.Title)
	s.logger.Warn("identity error", "action", action, "id", id)
	s.notes.Show(msg, notify.Error)
	return fmt.Errorf("%s %s %q: %w", action, s.schema.Title, id, entity.ErrIdentity)
}
