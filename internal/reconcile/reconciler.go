// Package reconcile keeps a screen's local list equal to the server's.
//
// The list is only ever replaced with a freshly mapped server listing. The
// one exception is a delete whose follow-up reload fails: the deleted id is
// then filtered out locally so the screen does not keep showing it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/mapper"
	"github.com/vikasavnish/carecoord/internal/resource"
)

type Reconciler struct {
	client resource.Client
	mapper *mapper.Mapper
	owner  string
	logger *slog.Logger

	mu    sync.RWMutex
	items []entity.Entity
	last  mapper.Result
}

func New(client resource.Client, m *mapper.Mapper, owner string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reconciler{
		client: client,
		mapper: m,
		owner:  owner,
		logger: logger.With("kind", m.Schema().Kind),
		items:  []entity.Entity{},
	}
}

// Reload fetches and maps the server list and replaces the local one. On
// error the local list is left as it was.
func (r *Reconciler) Reload(ctx context.Context) (mapper.Result, error) {
	raw, err := r.client.List(ctx, r.owner)
	if err != nil {
		return mapper.Result{}, fmt.Errorf("list %s: %w", r.mapper.Schema().Plural, err)
	}

	res := r.mapper.Map(r.owner, raw)
	if res.Unrecognized {
		r.logger.Warn("unrecognized list payload", "bytes", len(raw))
	}
	for _, rej := range res.Rejected {
		r.logger.Debug("record filtered", "index", rej.Index, "issues", rej.Issues)
	}

	r.mu.Lock()
	r.items = res.Entities
	r.last = res
	r.mu.Unlock()
	return res, nil
}

// Items returns a copy of the current list.
func (r *Reconciler) Items() []entity.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Entity(nil), r.items...)
}

func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Last returns the mapping result of the latest successful reload.
func (r *Reconciler) Last() mapper.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Reconciler) Find(id entity.ID) (entity.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.items {
		if e.ID == id {
			return e, true
		}
	}
	return entity.Entity{}, false
}

// Delete removes id on the server and reloads. An id that is invalid or not
// in the current list fails with entity.ErrIdentity without a network call.
func (r *Reconciler) Delete(ctx context.Context, id entity.ID) error {
	title := r.mapper.Schema().Title
	if !id.Valid() {
		return fmt.Errorf("delete %s: %w", title, entity.ErrIdentity)
	}
	if _, ok := r.Find(id); !ok {
		return fmt.Errorf("delete %s %s: not in list: %w", title, id, entity.ErrIdentity)
	}

	if err := r.client.Remove(ctx, r.owner, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", title, id, err)
	}

	if _, err := r.Reload(ctx); err != nil {
		r.logger.Warn("reload after delete failed, filtering locally", "id", id, "error", err)
		r.mu.Lock()
		kept := make([]entity.Entity, 0, len(r.items))
		for _, e := range r.items {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		r.items = kept
		r.mu.Unlock()
	}
	return nil
}
