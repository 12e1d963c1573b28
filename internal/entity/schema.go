package entity

import (
	"strings"
)

// FieldType controls how a field value is coerced into a request payload.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeStrings
)

// Rule checks a non-blank field value and returns a user-facing message, or
// "" when the value is acceptable. The whole draft is passed for rules that
// depend on sibling fields.
type Rule func(v any, draft Fields) string

// Field declares one domain field of a kind.
type Field struct {
	Name string
	Type FieldType
	// Candidates are the server keys tried in order when mapping a record.
	// Dotted keys reach into nested objects. Defaults to Name.
	Candidates []string
	Required   bool
	// RequiredMessage is reported when a required field is blank.
	RequiredMessage string
	// Lenient lets the mapper accept records where a required field is
	// missing; the form still requires it.
	Lenient bool
	// Default is used by the mapper when none of the candidates is present.
	Default any
	// NonNegative makes the mapper reject records with a negative value.
	NonNegative bool
	Rules       []Rule
	// Normalize rewrites raw input as it is typed (card number grouping etc.).
	Normalize func(string) string
}

// Keys returns the candidate keys for the field.
func (f Field) Keys() []string {
	if len(f.Candidates) > 0 {
		return f.Candidates
	}
	return []string{f.Name}
}

// Repair fixes a common record defect before the mapper validates it. Apply
// reports whether it changed anything.
type Repair struct {
	Name string
	// Contractual repairs are guaranteed; the rest are best-effort.
	Contractual bool
	Apply       func(record map[string]any, fields Fields) bool
}

// Text holds the user-facing messages of a screen.
type Text struct {
	Added        string
	Updated      string
	Deleted      string
	DeletedInfo  bool
	LoadFailed   string
	SaveFailed   string
	DeleteFailed string
}

// Schema describes one entity kind: its fields, how to find them in server
// payloads, and how it is presented to the user.
type Schema struct {
	Kind Kind
	// Singular and Plural are the nouns used in notices ("1 member has ...").
	Singular string
	Plural   string
	// Title starts identity error messages ("Cannot edit member: ...").
	Title           string
	IDCandidates    []string
	OwnerCandidates []string
	// Wrappers are the object keys that may hold the collection array.
	Wrappers []string
	Fields   []Field
	Repairs  []Repair
	Text     Text
	// Listed is false for submit-only kinds that have no collection.
	Listed bool
	// Prepare adds derived values to an outgoing payload.
	Prepare func(payload map[string]any, draft Fields)
}

// Field looks up a field declaration by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Noun returns the singular or plural noun for n records.
func (s Schema) Noun(n int) string {
	if n == 1 {
		return s.Singular
	}
	return s.Plural
}

// Blank returns the values of an empty draft.
func (s Schema) Blank() Fields {
	out := make(Fields, len(s.Fields))
	for _, f := range s.Fields {
		if f.Type == TypeStrings {
			out[f.Name] = []string{}
			continue
		}
		out[f.Name] = ""
	}
	return out
}

// Hydrate copies the schema fields of e into draft values.
func (s Schema) Hydrate(e Entity) Fields {
	out := s.Blank()
	for _, f := range s.Fields {
		v, ok := e.Fields[f.Name]
		if !ok {
			continue
		}
		switch f.Type {
		case TypeStrings:
			out[f.Name] = AsStrings(v)
		default:
			out[f.Name] = v
		}
	}
	return out
}

// Validate checks every field and returns one message per violated field.
// An empty map means the draft is valid.
func (s Schema) Validate(draft Fields) map[string]string {
	errs := make(map[string]string)
	for _, f := range s.Fields {
		v := draft[f.Name]
		if IsBlank(v) {
			if f.Required {
				errs[f.Name] = f.RequiredMessage
			}
			continue
		}
		for _, rule := range f.Rules {
			if msg := rule(v, draft); msg != "" {
				errs[f.Name] = msg
				break
			}
		}
	}
	return errs
}

// Payload encodes a validated draft into the JSON object sent to the server.
func (s Schema) Payload(draft Fields) map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v := draft[f.Name]
		switch f.Type {
		case TypeInt:
			n, _ := AsInt(v)
			setPath(out, f.Name, n)
		case TypeStrings:
			setPath(out, f.Name, AsStrings(v))
		default:
			setPath(out, f.Name, strings.TrimSpace(AsString(v)))
		}
	}
	if s.Prepare != nil {
		s.Prepare(out, draft)
	}
	return out
}

// Normalize applies the field's input normalizer to string values.
func (s Schema) Normalize(name string, v any) any {
	f, ok := s.Field(name)
	if !ok || f.Normalize == nil {
		return v
	}
	str, ok := v.(string)
	if !ok {
		return v
	}
	return f.Normalize(str)
}
