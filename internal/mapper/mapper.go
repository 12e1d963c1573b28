// Package mapper turns loosely shaped server payloads into canonical
// entities.
//
// Backends disagree on how a collection is wrapped and on what the fields
// are called. A Mapper tries an ordered list of Shape matchers to find the
// records, then resolves the id and every declared field through ordered
// candidate keys. Repairs run before validation; records that still fail
// are left out of the result and reported as rejections; mapping
// never fails as a whole.
package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// Rejection describes a record that was left out of the result.
type Rejection struct {
	Index  int
	Issues []string
	Record any
}

// Result is the canonical view of one payload.
type Result struct {
	// Shape names the matcher that recognized the payload.
	Shape        string
	Unrecognized bool
	Entities     []entity.Entity
	// Total counts the raw records found, valid or not.
	Total    int
	Rejected []Rejection
	// Repaired counts accepted records that needed a repair.
	Repaired int
}

// Filtered returns the number of records left out.
func (r Result) Filtered() int {
	return len(r.Rejected)
}

// Notice renders the user-facing note about filtered records, or "" when
// nothing was filtered.
func (r Result) Notice(s entity.Schema) string {
	n := r.Filtered()
	switch {
	case n == 0:
		return ""
	case n == 1:
		return fmt.Sprintf("1 %s has incomplete data and is not displayed", s.Noun(1))
	default:
		return fmt.Sprintf("%d %s have incomplete data and are not displayed", n, s.Noun(n))
	}
}

// Mapper maps payloads of one entity kind.
type Mapper struct {
	schema entity.Schema
	shapes []Shape
}

// New returns a mapper trying, in order: a bare array, each wrapper key of
// the schema, and a singleton object.
func New(schema entity.Schema) *Mapper {
	shapes := []Shape{Array{}}
	for _, key := range schema.Wrappers {
		shapes = append(shapes, WrappedArray{Key: key})
	}
	shapes = append(shapes, Singleton{Keys: singletonKeys(schema)})
	return &Mapper{schema: schema, shapes: shapes}
}

func singletonKeys(s entity.Schema) []string {
	if f, ok := s.Field("name"); ok {
		return append(append([]string{}, f.Keys()...), "firstName", "lastName")
	}
	for _, f := range s.Fields {
		if f.Required {
			return f.Keys()
		}
	}
	return nil
}

func (m *Mapper) Schema() entity.Schema {
	return m.schema
}

func (m *Mapper) Shapes() []Shape {
	return m.shapes
}

// Map decodes raw JSON and maps it. Undecodable input yields an empty,
// unrecognized result.
func (m *Mapper) Map(owner string, raw []byte) Result {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return Result{Unrecognized: true, Entities: []entity.Entity{}}
	}
	return m.MapValue(owner, payload)
}

// MapValue maps an already decoded payload. Numbers may be float64 or
// json.Number.
func (m *Mapper) MapValue(owner string, payload any) Result {
	res := Result{Entities: []entity.Entity{}}

	var records []any
	for _, shape := range m.shapes {
		if items, ok := shape.Extract(payload); ok {
			records = items
			res.Shape = shape.Name()
			break
		}
	}
	if res.Shape == "" {
		res.Unrecognized = true
		return res
	}

	res.Total = len(records)
	for i, raw := range records {
		e, issues, repaired := m.record(owner, raw)
		if len(issues) > 0 {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Issues: issues, Record: raw})
			continue
		}
		if repaired {
			res.Repaired++
		}
		res.Entities = append(res.Entities, e)
	}
	return res
}

func (m *Mapper) record(owner string, raw any) (entity.Entity, []string, bool) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return entity.Entity{}, []string{"Malformed record"}, false
	}

	var id entity.ID
	for _, key := range m.schema.IDCandidates {
		if v, ok := entity.ParseID(rec[key]); ok {
			id = v
			break
		}
	}

	recordOwner := ""
	for _, key := range m.schema.OwnerCandidates {
		if v, ok := rec[key]; ok && !entity.IsBlank(v) {
			recordOwner = entity.AsString(v)
			break
		}
	}

	fields := make(entity.Fields, len(m.schema.Fields))
	for _, f := range m.schema.Fields {
		found := false
		for _, key := range f.Keys() {
			if v, ok := entity.Lookup(rec, key); ok && !entity.IsBlank(v) {
				fields[f.Name] = coerce(f, v)
				found = true
				break
			}
		}
		if !found && f.Default != nil {
			fields[f.Name] = f.Default
		}
	}

	repaired := false
	for _, r := range m.schema.Repairs {
		if r.Apply(rec, fields) {
			repaired = true
		}
	}
	if issues := m.validate(id, owner, recordOwner, fields); len(issues) > 0 {
		return entity.Entity{}, issues, false
	}

	if owner == "" {
		owner = recordOwner
	}
	return entity.Entity{
		ID:       id,
		OwnerID:  owner,
		Kind:     m.schema.Kind,
		Fields:   fields,
		Original: rec,
	}, nil, repaired
}

func (m *Mapper) validate(id entity.ID, owner, recordOwner string, fields entity.Fields) []string {
	var issues []string
	if !id.Valid() {
		issues = append(issues, fmt.Sprintf("Missing %s ID", m.schema.Singular))
	}
	if owner != "" && recordOwner != "" && recordOwner != owner {
		issues = append(issues, "Owner mismatch")
	}
	for _, f := range m.schema.Fields {
		v, ok := fields[f.Name]
		if f.Required && !f.Lenient && (!ok || entity.IsBlank(v)) {
			issues = append(issues, "Missing "+f.Name)
			continue
		}
		if f.NonNegative && ok {
			if n, isInt := entity.AsInt(v); !isInt || n < 0 {
				issues = append(issues, "Invalid "+f.Name)
			}
		}
	}
	return issues
}

func coerce(f entity.Field, v any) any {
	switch f.Type {
	case entity.TypeInt:
		if n, ok := entity.AsInt(v); ok {
			return n
		}
		return v
	case entity.TypeStrings:
		return entity.AsStrings(v)
	default:
		return entity.AsString(v)
	}
}
