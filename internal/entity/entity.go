package entity

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrIdentity is returned when an edit or delete has no resolvable target id.
var ErrIdentity = errors.New("invalid entity id")

// Kind names a manageable collection.
type Kind string

const (
	KindFamily      Kind = "family"
	KindPet         Kind = "pet"
	KindElderly     Kind = "elderly"
	KindAppointment Kind = "appointment"
	KindPayment     Kind = "payment"
)

// ID is the canonical string form of an entity identifier. Numeric ids
// coming from JSON are rendered in decimal.
type ID string

// Valid reports whether the id can be used as a mutation target. Zero is
// never assigned by the server and counts as missing.
func (id ID) Valid() bool {
	s := strings.TrimSpace(string(id))
	return s != "" && s != "0" && s != "undefined" && s != "null"
}

func (id ID) String() string {
	return string(id)
}

// ParseID converts a raw identifier as found in decoded JSON into an ID.
func ParseID(v any) (ID, bool) {
	id, ok := parseID(v)
	return id, ok && id.Valid()
}

func parseID(v any) (ID, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case ID:
		return t, t.Valid()
	case string:
		id := ID(strings.TrimSpace(t))
		return id, id.Valid()
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return ID(strconv.FormatInt(n, 10)), true
		}
		f, err := t.Float64()
		if err != nil {
			return "", false
		}
		return parseID(f)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return "", false
		}
		return ID(strconv.FormatFloat(t, 'f', -1, 64)), true
	case int:
		return ID(strconv.Itoa(t)), true
	case int64:
		return ID(strconv.FormatInt(t, 10)), true
	case uint:
		return ID(strconv.FormatUint(uint64(t), 10)), true
	case uint64:
		return ID(strconv.FormatUint(t, 10)), true
	}
	return "", false
}

// Fields holds the domain values of an entity or draft keyed by field name.
// Nested values use dotted names, e.g. "emergencyContact.phone".
type Fields map[string]any

// Clone returns a copy that shares no slices with f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		out[k] = v
	}
	return out
}

func (f Fields) String(key string) string {
	return AsString(f[key])
}

func (f Fields) Int(key string) (int, bool) {
	return AsInt(f[key])
}

func (f Fields) Strings(key string) []string {
	return AsStrings(f[key])
}

// Entity is a canonical, validated domain record.
type Entity struct {
	ID      ID
	OwnerID string
	Kind    Kind
	Fields  Fields
	// Original is the raw server record. It is kept for debugging and never displayed.
	Original map[string]any
}

// Name returns the display name of the entity, if it has one.
func (e Entity) Name() string {
	return e.Fields.String("name")
}
