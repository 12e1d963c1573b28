package screen

import (
	"net/http"
	"time"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/notify"
	"github.com/vikasavnish/carecoord/internal/resource"
)

// Remote describes how screens reach the REST API.
type Remote struct {
	BaseURL string
	Session *resource.Session
	HTTP    *http.Client
	// Now decides which appointment dates and card expiries are in the
	// past. Defaults to time.Now.
	Now func() time.Time
}

// Schemas returns the schema of every kind with a screen.
func Schemas(now func() time.Time) []entity.Schema {
	if now == nil {
		now = time.Now
	}
	return []entity.Schema{
		entity.Family(),
		entity.Pet(),
		entity.Elderly(),
		entity.Appointment(now),
		entity.Payment(now),
	}
}

// Open builds one screen per kind for the session's owner. The screens
// share notes but nothing else.
func Open(remote Remote, notes *notify.Emitter, opts Options) map[entity.Kind]*Screen {
	hc := remote.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	screens := make(map[entity.Kind]*Screen)
	for _, schema := range Schemas(remote.Now) {
		client := resource.NewHTTPClient(remote.BaseURL, resource.DefaultRoutes(schema.Kind),
			resource.WithTokenSource(remote.Session.Token),
			resource.WithHTTPClient(hc),
			resource.WithLogger(opts.Logger),
		)
		screens[schema.Kind] = New(schema, remote.Session.Owner(), client, notes, opts)
	}
	return screens
}
