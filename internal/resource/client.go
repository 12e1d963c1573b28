// Package resource is the gateway to the remote entity collections.
//
// A Client performs exactly one network call per operation. It does not
// cache, retry or impose a timeout of its own; the caller's context is
// handed to the transport unchanged.
package resource

import (
	"context"
	"encoding/json"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// Client lists and mutates the collection of one entity kind, partitioned
// by owner.
type Client interface {
	List(ctx context.Context, owner string) (json.RawMessage, error)
	Create(ctx context.Context, owner string, fields map[string]any) (json.RawMessage, error)
	Update(ctx context.Context, owner string, id entity.ID, fields map[string]any) (json.RawMessage, error)
	Remove(ctx context.Context, owner string, id entity.ID) error
}
